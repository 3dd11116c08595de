// Package httperr renders application errors as JSON with a localized message.
package httperr

import (
	"errors"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/pkg/i18n"
	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var messageIDs = map[apperror.Kind]string{
	apperror.KindValidation:        i18n.MsgValidation,
	apperror.KindInsufficientStock: i18n.MsgInsufficientStock,
	apperror.KindNotFound:          i18n.MsgNotFound,
	apperror.KindConflict:          i18n.MsgConflict,
	apperror.KindRemote:            i18n.MsgRemote,
	apperror.KindUnauthorized:      i18n.MsgUnauthorized,
	apperror.KindForbidden:         i18n.MsgForbidden,
	apperror.KindUnavailable:       i18n.MsgAIUnavailable,
	apperror.KindRateLimited:       i18n.MsgAIRateLimited,
}

// Message returns the localized text shown to the user for err.
func Message(err error, langs ...string) string {
	if errors.Is(err, apperror.ErrInvalidQuantity) {
		return i18n.T(i18n.MsgInvalidQuantity, nil, langs...)
	}
	detail := ""
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		if appErr.MessageID != "" {
			return i18n.T(appErr.MessageID, nil, langs...)
		}
		detail = appErr.Detail
		if appErr.Field != "" {
			detail = appErr.Field + " " + detail
		}
	}
	return i18n.T(messageIDs[apperror.KindOf(err)], map[string]interface{}{"Detail": detail}, langs...)
}

func Respond(c *gin.Context, log logger.ZapLogger, err error) {
	kind := apperror.KindOf(err)
	if kind == apperror.KindRemote {
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(kind.HTTPStatus(), gin.H{
		"error":   Message(err, c.GetHeader("Accept-Language")),
		"code":    kind.String(),
		"details": err.Error(),
	})
}
