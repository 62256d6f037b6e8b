package utils

import (
	"context"

	"bitbucket.org/opilliashop/storefront_backend/appctx"
)

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, appctx.ContextKeyCorrelationId)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, appctx.ContextKeyCorrelationId, correlationId)
}

func GetSessionIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, appctx.ContextKeySessionId)
}

func SetSessionIdInContext(ctx context.Context, sessionId string) context.Context {
	return appctx.Set(ctx, appctx.ContextKeySessionId, sessionId)
}

func GetClientIPFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, appctx.ContextKeyClientIP)
}

func SetClientIPInContext(ctx context.Context, ip string) context.Context {
	return appctx.Set(ctx, appctx.ContextKeyClientIP, ip)
}
