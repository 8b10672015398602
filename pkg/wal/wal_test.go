package wal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

type entry struct {
	Seq  int    `json:"seq"`
	Note string `json:"note"`
}

func readAll(t *testing.T, w *WAL) []entry {
	t.Helper()
	var out []entry
	err := w.Replay(func(raw json.RawMessage) error {
		var e entry
		if err := json.Unmarshal(raw, &e); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	if err != nil {
		t.Fatalf("Replay err=%v", err)
	}
	return out
}

// TestAppendReplay 寫入後重新開檔應能依序讀回
func TestAppendReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wal.log")
	w, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 3; i++ {
		if err := w.Append(entry{Seq: i, Note: "n"}); err != nil {
			t.Fatal(err)
		}
	}
	w.Close()

	w2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w2.Close()
	got := readAll(t, w2)
	if len(got) != 3 || got[0].Seq != 1 || got[2].Seq != 3 {
		t.Fatalf("replay unexpected: %+v", got)
	}

	// Replay 之後仍可繼續追加
	if err := w2.Append(entry{Seq: 4}); err != nil {
		t.Fatal(err)
	}
	if got := readAll(t, w2); len(got) != 4 || got[3].Seq != 4 {
		t.Fatalf("after append: %+v", got)
	}
}

// TestReplayTruncatesTornTail 檔尾寫到一半的資料會被截掉
func TestReplayTruncatesTornTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wal.log")
	if err := os.WriteFile(path, []byte("{\"seq\":1,\"note\":\"a\"}\n{\"seq\":2,\"no"), 0600); err != nil {
		t.Fatal(err)
	}
	w, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if got := readAll(t, w); len(got) != 1 || got[0].Seq != 1 {
		t.Fatalf("replay unexpected: %+v", got)
	}
	if err := w.Append(entry{Seq: 3}); err != nil {
		t.Fatal(err)
	}
	if got := readAll(t, w); len(got) != 2 || got[1].Seq != 3 {
		t.Fatalf("after torn tail append: %+v", got)
	}
}

// TestRewrite 壓縮後只剩新的內容
func TestRewrite(t *testing.T) {
	w, err := Open(filepath.Join(t.TempDir(), "wal.log"))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	for i := 1; i <= 5; i++ {
		_ = w.Append(entry{Seq: i})
	}
	if err := w.Rewrite([]any{entry{Seq: 9}}); err != nil {
		t.Fatal(err)
	}
	if got := readAll(t, w); len(got) != 1 || got[0].Seq != 9 {
		t.Fatalf("after rewrite: %+v", got)
	}
}
