package catalog

import "github.com/utafrali/patatpalace/internal/domain"

var menu = []domain.Product{
	{
		ID:          "1",
		Name:        "Fries",
		Image:       "https://www.pngarts.com/files/3/Fries-PNG-Photo.png",
		Description: "Our delicious, crispy fries are made from carefully selected potatoes. We prepare our fries according to a traditional recipe, resulting in a perfectly crispy exterior and a soft, fluffy interior.",
		Ingredients: "Potatoes, vegetable oil, salt",
		Price:       "€2.50 - €4.50 (depending on size)",
		PrepTime:    "3-4 minutes",
	},
	{
		ID:          "2",
		Name:        "Dutch Sausage",
		Image:       "https://www.pngarts.com/files/3/French-Fries-PNG-Image.png",
		Description: "Our famous Dutch sausages are made according to a secret recipe. They are perfectly seasoned and always freshly prepared. Ideal to combine with our delicious fries and mayonnaise.",
		Ingredients: "Chicken meat, herbs, spices",
		Price:       "€1.75 each",
		PrepTime:    "3-5 minutes",
	},
	{
		ID:          "3",
		Name:        "Cheese Soufflé",
		Image:       "https://www.pngarts.com/files/3/Fries-PNG-Download-Image.png",
		Description: "A delicious cheese soufflé with melted cheese inside. Perfect for true cheese lovers. The crispy layer on the outside and the creamy cheese on the inside make this a popular snack.",
		Ingredients: "Flour, cheese (48%), vegetable fat, water, salt, herbs",
		Price:       "€1.90 each",
		PrepTime:    "4 minutes",
	},
	{
		ID:          "4",
		Name:        "Croquette",
		Image:       "https://www.pngarts.com/files/3/French-Fries-PNG-Free-Download.png",
		Description: "Our croquettes have a crispy exterior and a creamy, flavorful ragout inside. A Dutch classic that is perfectly prepared at our place for the ultimate snack experience.",
		Ingredients: "Beef, flour, butter, milk, breadcrumbs, herbs",
		Price:       "€2.10 each",
		PrepTime:    "4-5 minutes",
	},
	{
		ID:          "5",
		Name:        "Dutch Meatballs",
		Image:       "https://www.pngarts.com/files/3/French-Fries-PNG-Image-Background.png",
		Description: "Our Dutch meatballs are perfectly round and have a crispy crust with a soft, creamy filling. This classic Dutch snack is perfect with a drink or as part of a larger order.",
		Ingredients: "Beef, flour, butter, broth, breadcrumbs, herbs",
		Price:       "€4.50 (8 pieces)",
		PrepTime:    "4-5 minutes",
	},
	{
		ID:          "6",
		Name:        "Chicken Nuggets",
		Image:       "https://www.pngarts.com/files/3/French-Fries-PNG-High-Quality-Image.png",
		Description: "Our chicken nuggets are made from pure chicken breast, seasoned and fried to perfection. They are crispy on the outside and juicy on the inside, perfect for chicken lovers.",
		Ingredients: "Chicken breast (85%), breadcrumbs, vegetable oil, herbs",
		Price:       "€4.75 (6 pieces)",
		PrepTime:    "4-5 minutes",
	},
}
