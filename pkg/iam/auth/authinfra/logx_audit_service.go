package authinfra

import (
	"context"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/kernel"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/logx"
)

// LogxAuditService implements auth.AuditService using structured logx logging.
type LogxAuditService struct {
	logger *logx.Logger
}

func NewLogxAuditService(logger *logx.Logger) *LogxAuditService {
	return &LogxAuditService{logger: logger.Named("audit")}
}

func (s *LogxAuditService) event(ctx context.Context, name string, fields logx.Fields) *logx.Entry {
	fields["audit_event"] = name
	if rid, ok := ctx.Value(kernel.RequestIDKey).(string); ok && rid != "" {
		fields["request_id"] = rid
	}
	return s.logger.WithFields(fields)
}

func (s *LogxAuditService) LogLoginAttempt(ctx context.Context, email string, accountID kernel.AccountID, success bool, reason string) {
	entry := s.event(ctx, "login_attempt", logx.Fields{
		"email":      email,
		"account_id": accountID,
		"success":    success,
	})
	if !success {
		entry.WithField("reason", reason).Warn("Audit: login attempt")
		return
	}
	entry.Info("Audit: login attempt")
}

func (s *LogxAuditService) LogAccountCreated(ctx context.Context, accountID kernel.AccountID, email string) {
	s.event(ctx, "account_created", logx.Fields{
		"account_id": accountID,
		"email":      email,
	}).Info("Audit: account created")
}

func (s *LogxAuditService) LogTokenRefresh(ctx context.Context, accountID kernel.AccountID, success bool) {
	s.event(ctx, "token_refresh", logx.Fields{
		"account_id": accountID,
		"success":    success,
	}).Info("Audit: token refresh")
}

func (s *LogxAuditService) LogLogout(ctx context.Context, accountID kernel.AccountID) {
	s.event(ctx, "logout", logx.Fields{
		"account_id": accountID,
	}).Info("Audit: logout")
}

func (s *LogxAuditService) LogOTPVerification(ctx context.Context, email string, success bool) {
	s.event(ctx, "otp_verification", logx.Fields{
		"email":   email,
		"success": success,
	}).Info("Audit: OTP verification")
}
