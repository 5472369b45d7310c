// Copyright (C) 2025 Zidio Development (opensource@zidio.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"fmt"
	"time"
)

// Role is the coarse authorization flag carried by an identity. It is only
// used for conditional rendering by the shell; nothing in this process
// enforces it.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Provider identifies where an identity originated.
type Provider string

const (
	ProviderEmail   Provider = "email"
	ProviderGoogle  Provider = "google"
	ProviderGitHub  Provider = "github"
	ProviderTwitter Provider = "twitter"
)

// oauthProviders are the providers LoginWithProvider accepts.
var oauthProviders = map[Provider]bool{
	ProviderGoogle:  true,
	ProviderGitHub:  true,
	ProviderTwitter: true,
}

// Identity is the signed-in user. At most one Identity is active per
// process; it is created by login, merged by UpdateIdentity, cleared by
// logout, and restored from durable storage at startup.
//
// JSON field names match the persisted wire form, so an identity written
// by an older build restores cleanly.
type Identity struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Avatar   string   `json:"avatar,omitempty"`
	Role     Role     `json:"role"`
	Verified bool     `json:"isVerified"`
	Provider Provider `json:"provider,omitempty"`

	// Optional profile fields, editable through UpdateIdentity.
	Bio      string `json:"bio,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Company  string `json:"company,omitempty"`
	Title    string `json:"title,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	GitHub   string `json:"github,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// wellFormed reports whether a restored identity has the fields every
// legitimately persisted identity carries. Anything else is treated as
// storage corruption.
func (i *Identity) wellFormed() bool {
	if i.ID == "" || i.Email == "" || i.Name == "" {
		return false
	}
	return i.Role == RoleUser || i.Role == RoleAdmin
}

// IdentityPatch is a partial identity update. Nil fields are left
// untouched; non-nil fields overwrite. Role, Provider, ID, and the
// verification flag are not patchable.
type IdentityPatch struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Location *string `json:"location,omitempty"`
	Website  *string `json:"website,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Company  *string `json:"company,omitempty"`
	Title    *string `json:"title,omitempty"`
	Twitter  *string `json:"twitter,omitempty"`
	GitHub   *string `json:"github,omitempty"`
	LinkedIn *string `json:"linkedin,omitempty"`
}

// apply merges the patch into a copy of the identity, field by field.
func (p IdentityPatch) apply(id Identity) Identity {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&id.Name, p.Name)
	set(&id.Email, p.Email)
	set(&id.Avatar, p.Avatar)
	set(&id.Bio, p.Bio)
	set(&id.Location, p.Location)
	set(&id.Website, p.Website)
	set(&id.Phone, p.Phone)
	set(&id.Company, p.Company)
	set(&id.Title, p.Title)
	set(&id.Twitter, p.Twitter)
	set(&id.GitHub, p.GitHub)
	set(&id.LinkedIn, p.LinkedIn)
	return id
}

// Empty reports whether the patch changes nothing.
func (p IdentityPatch) Empty() bool {
	return p == IdentityPatch{}
}

// Preset profile used by the deterministic mock identities. These values
// mirror the demo account the platform ships with.
const (
	mockName     = "Jasleen Kaur"
	mockBio      = "Passionate writer and developer sharing insights about technology, design, and life."
	mockLocation = "San Francisco, CA"
	mockWebsite  = "https://jasleenkaur.dev"
	mockPhone    = "+1 (555) 123-4567"
	mockCompany  = "Tech Innovator"
	mockTitle    = "Full Stack Developer"
	mockTwitter  = "@jasleenkaur"
	mockGitHub   = "jasleenkaur"
	mockLinkedIn = "jasleenkaur"
)

// providerAvatars maps OAuth providers to their stock avatar URLs.
var providerAvatars = map[Provider]string{
	ProviderGoogle:  "https://lh3.googleusercontent.com/a/default-user",
	ProviderGitHub:  "https://github.com/github.png",
	ProviderTwitter: "https://abs.twimg.com/sticky/default_profile_images/default_profile_normal.png",
}

// providerDisplay maps providers to the suffix shown in the mock name.
var providerDisplay = map[Provider]string{
	ProviderGoogle:  "Google",
	ProviderGitHub:  "Github",
	ProviderTwitter: "Twitter",
}

// newEmailIdentity builds the deterministic identity granted by the mock
// credential exchange: the demo admin account bound to the given email.
func newEmailIdentity(email string) *Identity {
	return &Identity{
		ID:       "1",
		Name:     mockName,
		Email:    email,
		Avatar:   "/placeholder-avatar.jpg",
		Role:     RoleAdmin,
		Verified: true,
		Provider: ProviderEmail,
		Bio:      mockBio,
		Location: mockLocation,
		Website:  mockWebsite,
		Phone:    mockPhone,
		Company:  mockCompany,
		Title:    mockTitle,
		Twitter:  mockTwitter,
		GitHub:   mockGitHub,
		LinkedIn: mockLinkedIn,
	}
}

// newProviderIdentity builds the deterministic identity granted by a
// simulated third-party authorization.
func newProviderIdentity(p Provider) *Identity {
	return &Identity{
		ID:       fmt.Sprintf("%s-%d", p, time.Now().UnixMilli()),
		Name:     fmt.Sprintf("%s (%s)", mockName, providerDisplay[p]),
		Email:    fmt.Sprintf("jasleen.kaur@%s.com", p),
		Avatar:   providerAvatars[p],
		Role:     RoleUser,
		Verified: true,
		Provider: p,
		Bio:      mockBio,
		Location: mockLocation,
		Website:  mockWebsite,
		Phone:    mockPhone,
		Company:  mockCompany,
		Title:    mockTitle,
		Twitter:  mockTwitter,
		GitHub:   mockGitHub,
		LinkedIn: mockLinkedIn,
	}
}
