package usecase

import "context"

// 持久化使用的邏輯 key
const (
	// KeyCurrentSession 目前登入帳戶 (單一序列化 Account)
	KeyCurrentSession = "currentSessionAccount"
	// KeyAllAccounts 所有帳戶 (序列化 Account 陣列，id 唯一)
	KeyAllAccounts = "allAccounts"
)

// PersistenceStore 是帳務核心唯一依賴的外部儲存介面 (key-value)
type PersistenceStore interface {
	// Get 讀取 key，不存在時 ok 為 false
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set 寫入 key
	Set(ctx context.Context, key, value string) error
	// Remove 刪除 key，不存在時不報錯
	Remove(ctx context.Context, key string) error
}

// CredentialHasher 負責憑證的雜湊與比對
type CredentialHasher interface {
	Hash(secret string) (string, error)
	// Compare 回傳 secret 是否與 hashed 相符
	Compare(hashed, secret string) bool
}
