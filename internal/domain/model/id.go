package model

import "github.com/google/uuid"

// 主キーはUUID文字列。空のときだけ採番する
func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
