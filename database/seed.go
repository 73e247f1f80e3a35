package database

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/services"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

type seedItem struct {
	name        string
	description string
	category    models.Category
	price       int64
	ingredients []string
	prepTime    int
	imageURL    string
}

var seedMenu = []seedItem{
	{"Paneer Tikka", "Skewered paneer cubes marinated in spiced yogurt and grilled to perfection", models.CategoryAppetizer, 249,
		[]string{"Paneer", "Yogurt", "Capsicum", "Onion", "Indian Spices"}, 20, "https://images.unsplash.com/photo-1599487488170-d11ec9c172f0"},
	{"Chicken 65", "Spicy, deep-fried chicken tempered with curry leaves and green chilies", models.CategoryAppetizer, 279,
		[]string{"Chicken", "Chili Powder", "Curry Leaves", "Ginger-Garlic Paste"}, 15, "https://images.unsplash.com/photo-1610057099443-fde8c4d50f91"},
	{"Veg Samosa (2pcs)", "Crispy pastry filled with spiced potatoes and peas", models.CategoryAppetizer, 99,
		[]string{"Flour", "Potatoes", "Peas", "Spices"}, 10, "https://images.unsplash.com/photo-1601050690597-df056fb27796"},
	{"Gobi Manchurian", "Crispy cauliflower florets tossed in a spicy Indo-Chinese sauce", models.CategoryAppetizer, 219,
		[]string{"Cauliflower", "Soy Sauce", "Spring Onion", "Garlic"}, 18, "https://images.unsplash.com/photo-1606491956689-2ea866880c84"},
	{"Butter Chicken", "Tender chicken cooked in a rich, creamy tomato-based gravy", models.CategoryMainCourse, 449,
		[]string{"Chicken", "Butter", "Cream", "Tomato Puree", "Kashmiri Mirch"}, 25, "https://images.unsplash.com/photo-1603894584115-f73f2ec04576"},
	{"Paneer Butter Masala", "Soft paneer cubes in a classic smooth and creamy butter gravy", models.CategoryMainCourse, 379,
		[]string{"Paneer", "Cashews", "Cream", "Tomato", "Butter"}, 20, "https://images.unsplash.com/photo-1631452180519-c014fe946bc7"},
	{"Dal Makhani", "Slow-cooked black lentils with butter and cream, a house favorite", models.CategoryMainCourse, 319,
		[]string{"Black Urad Dal", "Rajma", "Butter", "Cream"}, 30, "https://images.unsplash.com/photo-1546833999-b9f581a1996d"},
	{"Chicken Biryani", "Fragrant basmati rice cooked with succulent chicken and aromatic spices", models.CategoryMainCourse, 399,
		[]string{"Basmati Rice", "Chicken", "Saffron", "Mint", "Biryani Spices"}, 35, "https://images.unsplash.com/photo-1563379091339-03b21bc4a4f8"},
	{"Garlic Naan", "Soft leavened bread topped with fresh garlic and coriander", models.CategoryMainCourse, 79,
		[]string{"Refined Flour", "Garlic", "Coriander", "Butter"}, 10, "https://images.unsplash.com/photo-1601303584126-269c2d5d5401"},
	{"Gulab Jamun (2pcs)", "Deep-fried milk solids soaked in cardamom-flavored sugar syrup", models.CategoryDessert, 149,
		[]string{"Khoya", "Sugar Syrup", "Cardamom", "Pistachios"}, 5, "https://images.unsplash.com/photo-1589119908995-c6837fa14848"},
	{"Rasmalai (2pcs)", "Soft cheese patties soaked in thickened, saffron-infused milk", models.CategoryDessert, 179,
		[]string{"Paneer", "Milk", "Saffron", "Almonds"}, 5, "https://images.unsplash.com/photo-1627916607164-cdb9ce1d3822"},
	{"Gajar Ka Halwa", "Traditional slow-cooked carrot pudding with milk and dry fruits", models.CategoryDessert, 199,
		[]string{"Carrots", "Milk", "Sugar", "Ghee", "Dry Fruits"}, 20, "https://images.unsplash.com/photo-1599307767316-776533bb941c"},
	{"Mango Lassi", "Creamy yogurt drink blended with sweet mango pulp", models.CategoryBeverage, 119,
		[]string{"Yogurt", "Mango Pulp", "Sugar"}, 10, "https://images.unsplash.com/photo-1549421263-54acc1746976"},
	{"Masala Chai", "Traditional Indian tea with milk and aromatic spices", models.CategoryBeverage, 59,
		[]string{"Tea Leaves", "Milk", "Ginger", "Cardamom"}, 10, "https://images.unsplash.com/photo-1561336313-0bd5e0b27ec8"},
	{"Fresh Lime Soda", "Refreshing soda with fresh lime juice, salt or sugar", models.CategoryBeverage, 89,
		[]string{"Soda", "Lime", "Salt/Sugar"}, 5, "https://images.unsplash.com/photo-1513558161293-cdaf765ed2fd"},
}

type seedLine struct {
	item     int
	quantity int
}

type seedOrder struct {
	customer string
	table    int
	lines    []seedLine
	// stages are the transitions applied after creation, in order.
	stages []models.OrderStatus
}

var (
	toDelivered = []models.OrderStatus{models.StatusPreparing, models.StatusReady, models.StatusDelivered}
	toReady     = []models.OrderStatus{models.StatusPreparing, models.StatusReady}
	toPreparing = []models.OrderStatus{models.StatusPreparing}
)

var seedOrders = []seedOrder{
	{"Rahul Sharma", 5, []seedLine{{0, 2}, {5, 1}}, toDelivered},
	{"Anjali Gupta", 2, []seedLine{{7, 1}, {12, 2}}, toPreparing},
	{"Vikram Singh", 8, []seedLine{{4, 1}, {8, 2}}, toReady},
	{"Priya Iyer", 1, []seedLine{{2, 4}, {13, 4}}, nil},
	{"Sanjay Dutt", 10, []seedLine{{6, 1}, {8, 1}}, []models.OrderStatus{models.StatusCancelled}},
	{"Amit Shah", 4, []seedLine{{1, 1}, {14, 1}}, toDelivered},
	{"Deepika P", 3, []seedLine{{10, 2}}, toPreparing},
	{"Ranvir S", 7, []seedLine{{3, 1}, {4, 1}}, toReady},
	{"Kiara A", 6, []seedLine{{11, 1}}, nil},
	{"Sid M", 9, []seedLine{{7, 2}}, toDelivered},
}

// Seed fills an empty catalog with the sample menu and places the sample
// orders through the lifecycle service, walking each through its stages.
// It does nothing when the catalog already has items.
func Seed(ctx context.Context, menu *services.MenuService, orders *services.OrderService) (bool, error) {
	n, err := menu.CatalogSize(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		utils.InfoLogger.WithField("menu_items", n).Info("Catalog not empty, skipping seed")
		return false, nil
	}

	ids := make([]string, 0, len(seedMenu))
	for _, s := range seedMenu {
		price := decimal.NewFromInt(s.price)
		prepTime := s.prepTime
		item, err := menu.CreateMenuItem(ctx, services.CreateMenuItemRequest{
			Name:            s.name,
			Description:     s.description,
			Category:        s.category,
			Price:           &price,
			Ingredients:     s.ingredients,
			PreparationTime: &prepTime,
			ImageURL:        s.imageURL,
		})
		if err != nil {
			return false, err
		}
		ids = append(ids, item.ID)
	}

	for _, s := range seedOrders {
		req := services.CreateOrderRequest{CustomerName: s.customer, TableNumber: s.table}
		for _, line := range s.lines {
			req.Items = append(req.Items, services.OrderLineRequest{MenuItemID: ids[line.item], Quantity: line.quantity})
		}
		order, err := orders.CreateOrder(ctx, req)
		if err != nil {
			return false, err
		}
		for _, stage := range s.stages {
			if _, err := orders.UpdateStatus(ctx, order.ID, string(stage)); err != nil {
				return false, err
			}
		}
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"menu_items": len(seedMenu),
		"orders":     len(seedOrders),
	}).Info("Database seeded")
	return true, nil
}
