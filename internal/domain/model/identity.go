package model

import "github.com/Ali-Sina-255/franch-OnlineShopping/internal/constants"

// Identity 呼叫者身分，由上游認證服務提供
type Identity struct {
	UserID int64
	Role   string
}

func (i Identity) IsAdmin() bool {
	return i.Role == constants.RoleAdmin
}

func (i Identity) IsAnonymous() bool {
	return i.UserID <= 0
}
