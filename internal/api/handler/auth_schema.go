package handler

import (
	"github.com/binarcar/car-rental/internal/core/domain"
)

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type registerResponse struct {
	User        userResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

func toUserResponse(u *domain.User, r *domain.Role) userResponse {
	resp := userResponse{ID: u.ID, Name: u.Name, Email: u.Email}
	if r != nil {
		resp.Role = string(r.Name)
	}
	return resp
}
