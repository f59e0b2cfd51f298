package database

import (
	"chat-sync/internal/apperror"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// translate 將驅動程式錯誤轉為領域錯誤
func translate(err error, op string) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return apperror.NotFound("%s: not found", op)
	case isDuplicateOn(err, usernameIndex):
		return apperror.Constraint(apperror.ConstraintUsername, err)
	case isDuplicateOn(err, dmIDIndex):
		return apperror.Constraint(apperror.ConstraintDMPair, err)
	}
	return apperror.Transient(err, op)
}

// isDuplicateOn 是否為指定唯一索引的衝突
func isDuplicateOn(err error, index string) bool {
	var se mongo.ServerError
	if errors.As(err, &se) {
		return se.HasErrorCodeWithMessage(11000, index)
	}
	return false
}
