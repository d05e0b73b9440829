// Copyright (c) 2025 graph-mcp contributors
//
// Licensed under the MIT License. See LICENSE file in the project root for full license information.

// users.go - User profile operations for the Microsoft Graph API client.
//
// Reads the signed-in user's profile via /me with an explicit $select so
// only the fields the tools return ever cross the wire. Requires the
// User.Read delegated scope.

package users

import (
	"context"

	"github.com/microsoftgraph/msgraph-sdk-go/users"

	"github.com/bcperry/graph-mcp/internal/graph"
	"github.com/bcperry/graph-mcp/internal/logging"
)

// Profile is the shaped subset of a Graph user returned by the tools.
type Profile struct {
	ID                string `json:"id,omitempty"`
	DisplayName       string `json:"displayName,omitempty"`
	Mail              string `json:"mail,omitempty"`
	UserPrincipalName string `json:"userPrincipalName,omitempty"`
	JobTitle          string `json:"jobTitle,omitempty"`
	OfficeLocation    string `json:"officeLocation,omitempty"`
}

// Email returns the best email address for the user: work/school accounts
// carry it in mail, personal accounts in userPrincipalName.
func (p Profile) Email() string {
	if p.Mail != "" {
		return p.Mail
	}
	return p.UserPrincipalName
}

// ProfileClient provides user profile operations for the Graph API client.
type ProfileClient struct {
	*graph.Client
}

// NewProfileClient creates a new profile client.
func NewProfileClient(client *graph.Client) *ProfileClient {
	return &ProfileClient{Client: client}
}

// GetMe fetches the signed-in user's profile.
func (c *ProfileClient) GetMe(ctx context.Context) (*Profile, error) {
	logging.UserLogger.Debug("Fetching user profile from Graph")

	callCtx, cancel := c.CallContext(ctx)
	defer cancel()

	config := &users.UserItemRequestBuilderGetRequestConfiguration{
		QueryParameters: &users.UserItemRequestBuilderGetQueryParameters{
			Select: []string{"id", "displayName", "mail", "userPrincipalName", "jobTitle", "officeLocation"},
		},
	}

	user, err := c.GraphClient.Me().Get(callCtx, config)
	if err != nil {
		return nil, graph.ClassifyError("get user profile", err)
	}

	profile := &Profile{
		ID:                deref(user.GetId()),
		DisplayName:       deref(user.GetDisplayName()),
		Mail:              deref(user.GetMail()),
		UserPrincipalName: deref(user.GetUserPrincipalName()),
		JobTitle:          deref(user.GetJobTitle()),
		OfficeLocation:    deref(user.GetOfficeLocation()),
	}

	logging.UserLogger.Info("Fetched user profile", "has_mail", profile.Mail != "")
	return profile, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
