package user

// User represents a storefront account. Password holds the bcrypt hash and
// is stripped from responses by sanitizeUser.
type User struct {
	ID                 int    `json:"userId"`
	Email              string `json:"email"`
	Password           string `json:"password,omitempty"`
	FullName           string `json:"fullName"`
	Phone              string `json:"phone"`
	IsAdmin            bool   `json:"isAdmin"`
	IsLocked           bool   `json:"isLocked"`
	FavoriteProductIDs []int  `json:"favoriteProductId,omitempty"`
	CreatedAt          string `json:"createdAt,omitempty"`
	UpdatedAt          string `json:"updatedAt,omitempty"`
}

func sanitizeUser(u User) User {
	u.Password = ""
	return u
}
