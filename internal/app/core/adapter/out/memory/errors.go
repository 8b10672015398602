package memory

import "errors"

// ErrWALWriteFailed 寫入 WAL 失敗
var ErrWALWriteFailed = errors.New("wal write failed")
