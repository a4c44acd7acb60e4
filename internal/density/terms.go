package density

// Term groups per domain: section headers, specific terms (grapes,
// ingredients, spirits), regional or method terms, and generic terms.
// All lowercase.

var wineHeaders = []string{
	"wine list", "wines", "red wine", "red wines", "white wine", "white wines",
	"rosé wine", "rosé wines", "rose wines", "sparkling wine", "sparkling wines",
	"champagne", "dessert wine", "dessert wines", "fortified wines",
	"by the glass", "by the bottle", "sommelier", "coravin", "fine wine",
}

var wineGrapes = []string{
	"cabernet sauvignon", "cabernet franc", "merlot", "pinot noir", "pinot grigio",
	"pinot gris", "chardonnay", "sauvignon blanc", "riesling", "syrah", "shiraz",
	"malbec", "tempranillo", "sangiovese", "grenache", "garnacha", "nebbiolo",
	"zinfandel", "primitivo", "chenin blanc", "viognier", "gewurztraminer",
	"albariño", "albarino", "gamay", "mourvèdre", "carménère", "pinotage",
	"grüner veltliner", "vermentino", "montepulciano", "barbera", "semillon",
	"muscadet", "prosecco", "cava", "crémant", "cremant",
}

var wineRegions = []string{
	"bordeaux", "burgundy", "bourgogne", "rioja", "ribera del duero", "chianti",
	"barolo", "barbaresco", "napa", "sonoma", "provence", "tuscany", "toscana",
	"piedmont", "mosel", "marlborough", "rhône", "rhone", "sancerre", "chablis",
	"châteauneuf", "chateauneuf", "languedoc", "loire", "alsace", "douro",
	"mendoza", "barossa", "stellenbosch", "côtes", "cotes", "valpolicella",
	"amarone", "pouilly", "médoc", "medoc", "saint-émilion", "margaux",
}

var wineTerms = []string{
	"vintage", "estate", "domaine", "château", "chateau", "reserva", "riserva",
	"reserve", "cuvée", "cuvee", "grand cru", "premier cru", "1er cru", "doc",
	"docg", "aoc", "bottle", "magnum", "glass", "carafe", "125ml", "175ml",
	"250ml", "375ml", "750ml", "brut", "extra brut", "demi-sec", "nv",
}

var foodHeaders = []string{
	"starters", "starter", "appetizers", "appetisers", "small plates", "mains",
	"main course", "main courses", "entrées", "entrees", "desserts", "puddings",
	"sides", "side dishes", "salads", "soups", "pasta", "pizza", "from the grill",
	"grill", "sharing", "to share", "sandwiches", "burgers", "breakfast", "brunch",
	"lunch", "dinner", "tasting menu", "specials", "kids menu", "cheese board",
}

var foodIngredients = []string{
	"chicken", "beef", "steak", "lamb", "pork", "duck", "venison", "salmon",
	"cod", "haddock", "sea bass", "tuna", "prawn", "prawns", "scallops",
	"mussels", "crab", "lobster", "mushroom", "mushrooms", "truffle", "cheese",
	"parmesan", "mozzarella", "burrata", "goat's cheese", "tomato", "tomatoes",
	"garlic", "onion", "potato", "potatoes", "chips", "fries", "rice", "risotto",
	"egg", "eggs", "bacon", "chorizo", "avocado", "spinach", "chocolate",
	"lemon", "butter", "cream", "pesto", "aioli", "hollandaise",
}

var foodMethods = []string{
	"grilled", "roasted", "roast", "fried", "deep-fried", "pan-fried",
	"pan-seared", "seared", "braised", "slow-cooked", "smoked", "baked",
	"poached", "confit", "steamed", "charred", "cured", "chargrilled",
}

var foodTerms = []string{
	"(v)", "(vg)", "(gf)", "(df)", "(n)", "vegan", "vegetarian", "gluten free",
	"gluten-free", "dairy free", "served with", "homemade", "house-made",
	"seasonal", "locally sourced", "allergens", "side of",
}

var beverageHeaders = []string{
	"cocktails", "signature cocktails", "classic cocktails", "mocktails",
	"beers", "beer", "draught", "on tap", "bottled beers", "ciders", "spirits",
	"soft drinks", "hot drinks", "coffee", "tea", "juices", "whisky", "whiskey",
	"gin", "rum", "vodka", "tequila", "liqueurs", "aperitifs", "digestifs",
	"non-alcoholic", "low & no",
}

var beverageSpirits = []string{
	"vodka", "gin", "rum", "tequila", "mezcal", "bourbon", "scotch", "whisky",
	"whiskey", "cognac", "brandy", "vermouth", "campari", "aperol", "amaretto",
	"triple sec", "absinthe", "sake", "soju",
}

var beverageStyles = []string{
	"lager", "ipa", "pale ale", "stout", "porter", "ale", "pilsner", "wheat beer",
	"sour", "cider", "negroni", "martini", "margarita", "mojito", "spritz",
	"old fashioned", "espresso martini", "daiquiri", "cosmopolitan", "bellini",
	"espresso", "latte", "cappuccino", "americano", "flat white", "tonic",
	"lemonade", "cola", "kombucha",
}

var beverageTerms = []string{
	"25ml", "35ml", "50ml", "pint", "half pint", "1/2 pint", "330ml", "500ml",
	"abv", "on the rocks", "neat", "double", "single", "mixer", "garnish",
	"shaken", "stirred", "muddled", "bitters", "syrup", "soda",
}
