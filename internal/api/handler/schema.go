package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type signUpRequest struct {
	Username string `json:"username" validate:"required,max=25"`
	Email    string `json:"email"    validate:"required,email,max=80"`
	Password string `json:"password" validate:"required"`
	IsStaff  bool   `json:"is_staff"`
	// IsActive defaults to true when omitted.
	IsActive *bool `json:"is_active"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	IsStaff   bool   `json:"is_staff"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

type tokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type accessTokenResponse struct {
	Access string `json:"access"`
}

// --- Orders ---

// orderRequest is used for placement and full replacement. Empty enumeration
// fields take their defaults (SMALL, PEPPERONI, PENDING).
type orderRequest struct {
	Quantity    int    `json:"quantity"     validate:"gt=0"`
	PizzaSize   string `json:"pizza_size"   validate:"omitempty,oneof=SMALL MEDIUM LARGE"`
	Flavour     string `json:"flavour"      validate:"omitempty,oneof=PEPPERONI CHEESE MARGHERITA HAWAIIAN VEGETARIAN"`
	OrderStatus string `json:"order_status" validate:"omitempty,oneof=PENDING PROCESSING IN_TRANSIT DELIVERED CANCELLED"`
}

// statusUpdateRequest defaults to PENDING when order_status is omitted.
type statusUpdateRequest struct {
	OrderStatus string `json:"order_status" validate:"omitempty,oneof=PENDING PROCESSING IN_TRANSIT DELIVERED CANCELLED"`
}

type orderResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Quantity    int    `json:"quantity"`
	PizzaSize   string `json:"pizza_size"`
	Flavour     string `json:"flavour"`
	OrderStatus string `json:"order_status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}
