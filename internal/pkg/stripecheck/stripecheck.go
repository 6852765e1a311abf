package stripecheck

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/account"
)

const (
	msgPublishableKey = "Publishable key must start with pk_test_ or pk_live_"
	msgSecretKey      = "Secret key must start with sk_test_ or sk_live_"
	msgWebhookSecret  = "Webhook secret must start with whsec_"
	msgModeMismatch   = "Publishable key and secret key must both be test keys or both be live keys"
	msgSecretRequired = "Secret key is required to test the connection"
)

// ValidateFormat 校验三个 Stripe 凭据的前缀，空串视为未配置
func ValidateFormat(publishableKey, secretKey, webhookSecret string) []string {
	errs := []string{}
	if publishableKey != "" && !hasAnyPrefix(publishableKey, "pk_test_", "pk_live_") {
		errs = append(errs, msgPublishableKey)
	}
	if secretKey != "" && !hasAnyPrefix(secretKey, "sk_test_", "sk_live_") {
		errs = append(errs, msgSecretKey)
	}
	if webhookSecret != "" && !strings.HasPrefix(webhookSecret, "whsec_") {
		errs = append(errs, msgWebhookSecret)
	}
	return errs
}

// IsLiveKey 判断 key 是否为线上环境的 key
func IsLiveKey(key string) bool {
	return strings.HasPrefix(key, "pk_live_") || strings.HasPrefix(key, "sk_live_")
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// Account 连接成功时返回的账号信息
type Account struct {
	ID             string
	Email          string
	Country        string
	ChargesEnabled bool
}

// AccountVerifier 用 secret key 读取当前 Stripe 账号
type AccountVerifier interface {
	Verify(ctx context.Context, secretKey string) (*Account, error)
}

// Result 连通性检查结果，失败不会以 error 形式返回
type Result struct {
	Success  bool
	Message  string
	Errors   []string
	LiveMode bool
	Account  *Account
}

type Checker struct {
	verifier AccountVerifier
}

func NewChecker(verifier AccountVerifier) *Checker {
	return &Checker{verifier: verifier}
}

// TestConnection 先做格式校验，再调用 Stripe 账号接口验证 secret key
func (c *Checker) TestConnection(ctx context.Context, publishableKey, secretKey, webhookSecret string) Result {
	if errs := ValidateFormat(publishableKey, secretKey, webhookSecret); len(errs) > 0 {
		return Result{Message: "Invalid Stripe credentials", Errors: errs}
	}
	if secretKey == "" {
		return Result{Message: msgSecretRequired, Errors: []string{msgSecretRequired}}
	}
	if publishableKey != "" && IsLiveKey(publishableKey) != IsLiveKey(secretKey) {
		return Result{Message: msgModeMismatch, Errors: []string{msgModeMismatch}}
	}

	acct, err := c.verifier.Verify(ctx, secretKey)
	if err != nil {
		msg := "Failed to connect to Stripe: " + describe(err)
		return Result{Message: msg, Errors: []string{msg}}
	}

	return Result{
		Success:  true,
		Message:  "Successfully connected to Stripe",
		LiveMode: IsLiveKey(secretKey),
		Account:  acct,
	}
}

func describe(err error) string {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return stripeErr.Msg
	}
	return err.Error()
}

// StripeVerifier 通过 stripe-go 调用账号接口；每次请求使用独立的 key，不修改全局 stripe.Key
type StripeVerifier struct {
	backend stripe.Backend
}

func NewStripeVerifier(timeout time.Duration) *StripeVerifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: timeout},
		MaxNetworkRetries: stripe.Int64(0),
	})
	return &StripeVerifier{backend: backend}
}

func (v *StripeVerifier) Verify(ctx context.Context, secretKey string) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := account.Client{B: v.backend, Key: secretKey}
	acct, err := client.Get()
	if err != nil {
		return nil, err
	}

	return &Account{
		ID:             acct.ID,
		Email:          acct.Email,
		Country:        acct.Country,
		ChargesEnabled: acct.ChargesEnabled,
	}, nil
}
