package api

import "time"

// Role is the user role assigned by the backend.
type Role string

// Known roles.
const (
	RoleCustomer Role = "CUSTOMER"
	RoleVendor   Role = "VENDOR"
	RoleAdmin    Role = "ADMIN"
)

// Profile is the resolved identity returned by GET /users/me. The vendor
// fields are zero-valued for customers and admins.
type Profile struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`

	// Approved is the vendor approval flag. The backend serializes the
	// entity's isApproved as "approved".
	Approved          bool   `json:"approved"`
	ShopName          string `json:"shopName,omitempty"`
	ShopDescription   string `json:"shopDescription,omitempty"`
	ApplicationStatus string `json:"applicationStatus,omitempty"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register request body.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role,omitempty"`
}

// AuthResult carries the bearer token issued on login or registration.
type AuthResult struct {
	Token string `json:"token"`
}

// Product is a catalog entry.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"imageUrl"`
	VendorName  string  `json:"vendorName"`
}

// NewProduct is the vendor catalog-creation request body.
type NewProduct struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// Availability is the response of GET /inventory/available/:productId.
type Availability struct {
	ProductID      int64 `json:"productId"`
	AvailableStock int   `json:"availableStock"`
}

// InventoryItem is one line of the vendor's inventory view. Status is
// computed server-side (IN_STOCK, LOW_STOCK, OUT_OF_STOCK, ...) and treated
// as opaque here.
type InventoryItem struct {
	ProductID     int64   `json:"productId"`
	ProductName   string  `json:"productName"`
	UnitPrice     float64 `json:"unitPrice"`
	StockQuantity int     `json:"stockQuantity"`
	SoldQuantity  int     `json:"soldQuantity"`
	Status        string  `json:"status"`
}

// DashboardStats is the vendor dashboard aggregate.
type DashboardStats struct {
	TotalProducts    int64   `json:"totalProducts"`
	ActiveProducts   int64   `json:"activeProducts"`
	LowStockCount    int64   `json:"lowStockCount"`
	OutOfStockCount  int64   `json:"outOfStockCount"`
	TotalStock       int     `json:"totalStock"`
	TotalSold        int     `json:"totalSold"`
	PotentialRevenue float64 `json:"potentialRevenue"`
}

// VendorApplicationRequest is the onboarding form submission body.
type VendorApplicationRequest struct {
	ShopName    string `json:"shopName"`
	Description string `json:"description"`
}

// Applicant is the user attached to a vendor application.
type Applicant struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Application is one vendor application as seen by an admin.
type Application struct {
	ID          int64     `json:"id"`
	ShopName    string    `json:"shopName"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	User        Applicant `json:"user"`
	CreatedAt   time.Time `json:"createdAt"`
}

// VendorPerformance is one row of the admin analytics view.
type VendorPerformance struct {
	VendorID      int64   `json:"vendorId"`
	VendorName    string  `json:"vendorName"`
	ShopName      string  `json:"shopName"`
	TotalProducts int64   `json:"totalProducts"`
	TotalSold     int64   `json:"totalSold"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

// OrderItem is one line of an order request or response.
type OrderItem struct {
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderRequest is the order-creation body. TotalAmount is computed locally
// as a redundant check; the server recomputes and its value is
// authoritative afterwards.
type OrderRequest struct {
	ShippingAddress string      `json:"shippingAddress"`
	Phone           string      `json:"phone"`
	Items           []OrderItem `json:"items"`
	TotalAmount     float64     `json:"totalAmount"`
}

// Order is a created order as returned by the server.
type Order struct {
	ID              int64       `json:"id"`
	ShippingAddress string      `json:"shippingAddress"`
	Phone           string      `json:"phone"`
	Items           []OrderItem `json:"items"`
	TotalAmount     float64     `json:"totalAmount"`
	Status          string      `json:"status"`
	CreatedAt       time.Time   `json:"createdAt"`
}
