package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// 手机号另存一份加盐哈希用于等值查询，盐 + ":" + phone，避免彩虹表攻击

func HashPhone(salt, phone string) string {
	sum := sha256.Sum256([]byte(salt + ":" + phone))

	return hex.EncodeToString(sum[:])
}
