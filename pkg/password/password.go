package password

import (
	"errors"
	"sync/atomic"

	"golang.org/x/crypto/bcrypt"
)

// MaxLength bcrypt 只使用前72字节，更长的密码直接拒绝
const MaxLength = 72

// ErrTooLong 密码超过 MaxLength
var ErrTooLong = errors.New("password exceeds 72 bytes")

var cost atomic.Int32

func init() {
	cost.Store(int32(bcrypt.DefaultCost))
}

// SetCost 调整哈希成本，测试中使用 bcrypt.MinCost 加速
func SetCost(c int) {
	if c < bcrypt.MinCost || c > bcrypt.MaxCost {
		c = bcrypt.DefaultCost
	}
	cost.Store(int32(c))
}

// Hash 生成密码哈希
func Hash(plain string) (string, error) {
	if len(plain) > MaxLength {
		return "", ErrTooLong
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), int(cost.Load()))
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify 校验密码，哈希格式非法时视为不匹配
func Verify(plain, hash string) bool {
	if len(plain) > MaxLength {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
