package domain

// SignupRequest is the JSON body of POST /api/signup.
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the JSON body of POST /api/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Profile is the response body of GET /api/me.
type Profile struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Transaction is one entry in the GET /api/transactions response.
type Transaction struct {
	ID          int64   `json:"id"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}
