package accountapi

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/account"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/kernel"
)

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r SignInRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 50)),
	)
}

type RefreshRequest struct {
	UserID       kernel.AccountID `json:"userId"`
	RefreshToken string           `json:"refreshToken"`
}

func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required),
	)
}

type SubscriptionDetails struct {
	UserSubscriptionPlan string             `json:"userSubscriptionPlan"`
	ExpiredAt            *time.Time         `json:"expiredAt"`
	RemainingTime        *account.Breakdown `json:"remainingTime"`
}

type UserInfo struct {
	UserID              kernel.AccountID    `json:"userId"`
	Email               string              `json:"email"`
	DisplayName         string              `json:"displayName"`
	IsEmailVerified     bool                `json:"isEmailVerified"`
	SubscriptionDetails SubscriptionDetails `json:"subscriptionDetails"`
}

type LoginResponse struct {
	UserInfo UserInfo `json:"userInfo"`
	Token    string   `json:"token"`
}

func newLoginResponse(res *account.LoginResult) LoginResponse {
	return LoginResponse{
		UserInfo: UserInfo{
			UserID:          res.Account.ID,
			Email:           res.Account.Email,
			DisplayName:     res.Account.DisplayName(),
			IsEmailVerified: res.Account.IsEmailVerified,
			SubscriptionDetails: SubscriptionDetails{
				UserSubscriptionPlan: res.PlanName,
				ExpiredAt:            res.ExpiredAt,
				RemainingTime:        res.Remaining.Breakdown(),
			},
		},
		Token: res.Tokens.AccessToken,
	}
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiredAt time.Time `json:"expiredAt"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
