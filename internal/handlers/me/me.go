// Package me exposes the authenticated caller.
package me

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/church-finance/internal/auth"
)

type MeOutput struct {
	Body struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Role    string `json:"role"`
		IsAdmin bool   `json:"is_admin"`
	}
}

func Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-me",
		Method:      http.MethodGet,
		Path:        "/api/me",
		Summary:     "Current user",
		Tags:        []string{"Auth"},
		Security:    auth.RequireSession,
	}, func(ctx context.Context, _ *struct{}) (*MeOutput, error) {
		user := auth.UserFromContext(ctx)
		if user == nil {
			return nil, huma.Error401Unauthorized("Unauthorized")
		}
		out := &MeOutput{}
		out.Body.ID = user.ID.String()
		out.Body.Email = user.Email
		out.Body.Role = user.Role
		out.Body.IsAdmin = user.IsAdmin()
		return out, nil
	})
}
