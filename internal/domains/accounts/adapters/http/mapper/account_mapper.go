package mapper

import accountsdomain "github.com/Apurer/storefront-api/internal/domains/accounts/domain"

// Registration is the sign-up payload.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Credentials is the login payload; Identifier is an email or phone number.
type Credentials struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Profile is returned on successful login.
type Profile struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	IsAdmin    bool   `json:"isAdmin"`
	IsVerified bool   `json:"isVerified"`
}

// AdminUser is a row in the admin user listing.
type AdminUser struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	IsVerified bool   `json:"is_verified"`
}

func ToRegistration(in Registration) accountsdomain.Registration {
	return accountsdomain.Registration{
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Password: in.Password,
	}
}

func FromDomainProfile(a *accountsdomain.Account) Profile {
	if a == nil {
		return Profile{}
	}
	return Profile{
		ID:         a.ID,
		Name:       a.Name,
		Email:      a.Email,
		Phone:      a.Phone,
		IsAdmin:    a.Admin,
		IsVerified: a.Verified,
	}
}

func FromDomainAdminUsers(accounts []*accountsdomain.Account) []AdminUser {
	result := make([]AdminUser, 0, len(accounts))
	for _, a := range accounts {
		result = append(result, AdminUser{
			ID:         a.ID,
			Name:       a.Name,
			Email:      a.Email,
			Phone:      a.Phone,
			IsVerified: a.Verified,
		})
	}
	return result
}
