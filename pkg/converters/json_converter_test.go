package converters

import (
    "encoding/json"
    "errors"
    "fmt"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
)

func fixedConverter() *JSONConverter {
    return &JSONConverter{now: func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }}
}

func TestConvertSuccess(t *testing.T) {
    data := &models.ParsedMenuData{MenuName: "Lunch", Items: []models.CleanMenuItem{{Name: "Soup"}}, TotalItems: 1,
        ProcessingNotes: []string{"processed in 2 chunks"}}
    res := fixedConverter().Convert(data, nil)
    assert.True(t, res.Success)
    assert.Same(t, data, res.Data)
    assert.Empty(t, res.Errors)
    assert.True(t, IsPartial(res))

    out, err := fixedConverter().Marshal(res)
    require.NoError(t, err)
    var decoded map[string]any
    require.NoError(t, json.Unmarshal(out, &decoded))
    assert.Equal(t, true, decoded["success"])
    assert.Equal(t, []any{}, decoded["errors"])
}

func TestConvertExpandsJoinedErrors(t *testing.T) {
    chunkErr := fmt.Errorf("chunk 1/2: %w", fmt.Errorf("%w: %w", models.ErrServiceUnavailable, errors.New("503")))
    err := errors.Join(chunkErr, errors.New("chunk 2/2: timeout"), models.ErrNoItems)

    res := fixedConverter().Convert(nil, err)
    assert.False(t, res.Success)
    assert.Nil(t, res.Data)
    assert.Equal(t, []string{
        "chunk 1/2: extraction service unavailable: 503",
        "chunk 2/2: timeout",
        "no menu items extracted",
    }, res.Errors)
}

func TestErrorMessagesKeepsMultiWrap(t *testing.T) {
    err := fmt.Errorf("%w: %w", models.ErrServiceUnavailable, errors.New("503"))
    assert.Equal(t, []string{"extraction service unavailable: 503"}, ErrorMessages(err))
    assert.Equal(t, []string{}, ErrorMessages(nil))
}

func TestConvertNilDataWithoutError(t *testing.T) {
    res := fixedConverter().Convert(nil, nil)
    assert.False(t, res.Success)
    assert.Equal(t, []string{"no menu items extracted"}, res.Errors)
}
