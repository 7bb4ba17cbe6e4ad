package transport

import (
	"time"

	"github.com/Skotchmaster/museofile/internal/models"
	"github.com/Skotchmaster/museofile/internal/museofile"
)

type RegisterRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"`
}

type FavoriteRequest struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	City       string `json:"city"`
	Department string `json:"department"`
}

type UserOut struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func NewUserOut(u *models.User) UserOut {
	return UserOut{ID: u.ID, Username: u.Username, Email: u.Email}
}

type TokenOut struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func NewTokenOut(token string, exp time.Time) TokenOut {
	return TokenOut{AccessToken: token, TokenType: "bearer", ExpiresAt: exp.UTC()}
}

type RegisterResponse struct {
	Message string `json:"message"`
	UserOut
	*TokenOut
}

type MeResponse struct {
	User UserOut `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// FavoriteOut exposes the museum id as "id", the same key clients post.
type FavoriteOut struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	City       string `json:"city"`
	Department string `json:"department"`
}

func NewFavoriteOut(f models.Favorite) FavoriteOut {
	return FavoriteOut{ID: f.MuseumID, Name: f.Name, City: f.City, Department: f.Department}
}

type FavoritesResponse struct {
	Count     int           `json:"count"`
	Favorites []FavoriteOut `json:"favorites"`
}

type AddFavoriteResponse struct {
	Message  string      `json:"message"`
	Favorite FavoriteOut `json:"favorite"`
}

// SearchFilters echoes the query; absent parameters are null.
type SearchFilters struct {
	City       *string `json:"city"`
	Department *string `json:"department"`
	Name       *string `json:"name"`
}

type MuseumsResponse struct {
	Filters SearchFilters      `json:"filters"`
	Count   int                `json:"count"`
	Results []museofile.Museum `json:"results"`
}
