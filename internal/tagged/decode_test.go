package tagged

import (
	"errors"
	"testing"
	"time"
)

const twoFiles = `info1: depotFile //depot/dir/file
info1: rev 3
info1: change 42
info1: action edit
info1: type text
info1: time 1527128624
info1: depotFile //depot/dir/file2
info1: rev 1
info1: change 7
info1: action move/add
info1: type binary+l
info1: time 1527128625
exit: 0
`

func exitCode[T any](t *testing.T, it Item[T]) int32 {
	t.Helper()
	code, ok := it.Code()
	if !ok {
		t.Fatalf("expected exit item, got kind %v", it.Kind())
	}
	return code
}

func TestDecodeFiles_TwoRecordsInOrder(t *testing.T) {
	s, err := DecodeFiles([]byte(twoFiles), "files")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	items := s.Collect()
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	first, ok := items[0].Data()
	if !ok {
		t.Fatalf("expected data item first")
	}
	if first.DepotFile != "//depot/dir/file" || first.Rev != 3 || first.Change != 42 {
		t.Fatalf("unexpected first record: %+v", first)
	}
	if first.Action != ActionEdit || first.Type.Base != BaseText {
		t.Fatalf("unexpected action/type: %q %q", first.Action, first.Type)
	}
	if !first.Time.Equal(time.Unix(1527128624, 0)) {
		t.Fatalf("unexpected time: %v", first.Time)
	}
	second, ok := items[1].Data()
	if !ok || second.DepotFile != "//depot/dir/file2" || second.Action != ActionMoveAdd {
		t.Fatalf("unexpected second record: %+v", second)
	}
	if !second.Type.Mods.Exclusive || second.Type.String() != "binary+l" {
		t.Fatalf("unexpected second type: %+v", second.Type)
	}
	if exitCode(t, items[2]) != 0 {
		t.Fatalf("unexpected exit code")
	}
}

func TestDecodeFiles_MissingFieldFailsWholeBuffer(t *testing.T) {
	in := `info1: depotFile //depot/dir/file
info1: rev 3
info1: change 42
info1: action edit
info1: type text
info1: time 1527128624
info1: depotFile //depot/dir/file2
info1: rev 3
info1: change 42
info1: type text
info1: time 1527128624
exit: 0
`
	s, err := DecodeFiles([]byte(in), "p4 files //depot/dir/...")
	if s != nil {
		t.Fatalf("expected no stream")
	}
	if !IsParseFailed(err) {
		t.Fatalf("expected ParseFailed, got %v", err)
	}
	if !errors.Is(err, ErrMissingExit) {
		t.Fatalf("expected ErrMissingExit cause, got %v", err)
	}
	var opErr *Error
	if !errors.As(err, &opErr) || opErr.Context() != "p4 files //depot/dir/..." {
		t.Fatalf("unexpected context: %v", err)
	}
}

func TestDecodeFiles_ErrorLineIsNotFatal(t *testing.T) {
	s, err := DecodeFiles([]byte("error: .tags - no such file(s).\nexit: 0\n"), "files")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", s.Len())
	}
	it, _ := s.Next()
	msg, ok := it.Message()
	if !ok || msg.Level != LevelError || msg.Text != ".tags - no such file(s)." {
		t.Fatalf("unexpected message item: %+v", it)
	}
	it, _ = s.Next()
	if exitCode(t, it) != 0 {
		t.Fatalf("unexpected exit code")
	}
}

func TestDecodeFiles_InfoAndWarningLines(t *testing.T) {
	in := "info: //depot/a - no file(s) at that changelist\nwarning: //depot/b - file(s) not in client view.\nexit: 1\n"
	s, err := DecodeFiles([]byte(in), "files")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	items := s.Collect()
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if m, _ := items[0].Message(); m.Level != LevelInfo {
		t.Fatalf("expected info message, got %+v", m)
	}
	if m, _ := items[1].Message(); m.Level != LevelWarning {
		t.Fatalf("expected warning message, got %+v", m)
	}
	if exitCode(t, items[2]) != 1 {
		t.Fatalf("expected exit 1")
	}
}

func TestDecodeFiles_InterleavedMessagesKeepOrder(t *testing.T) {
	in := `error: //depot/missing - no such file(s).
info1: depotFile //depot/dir/file
info1: rev 3
info1: change 42
info1: action delete
info1: type text
info1: time 1527128624
error: //depot/other - no such file(s).
exit: 1
`
	s, err := DecodeFiles([]byte(in), "files")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var kinds []ItemKind
	for it := range s.All() {
		kinds = append(kinds, it.Kind())
	}
	want := []ItemKind{KindMessage, KindData, KindMessage, KindError}
	if len(kinds) != len(want) {
		t.Fatalf("unexpected kinds: %v", kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kind[%d]=%v want %v", i, kinds[i], want[i])
		}
	}
	if s.Len() != 0 {
		t.Fatalf("stream not drained")
	}
	if _, ok := s.Next(); ok {
		t.Fatalf("stream must not restart")
	}
}

func TestDecode_MissingExit(t *testing.T) {
	_, err := DecodeDirs([]byte("info1: dir //depot/a\n"), "dirs")
	if !IsParseFailed(err) || !errors.Is(err, ErrMissingExit) {
		t.Fatalf("expected missing exit, got %v", err)
	}
}

func TestDecode_EmptyBuffer(t *testing.T) {
	_, err := DecodeWhere(nil, "where")
	if !IsParseFailed(err) {
		t.Fatalf("expected ParseFailed, got %v", err)
	}
}

func TestDecode_IsDeterministic(t *testing.T) {
	a, err := DecodeFiles([]byte(twoFiles), "files")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b, err := DecodeFiles([]byte(twoFiles), "files")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	ai, bi := a.Collect(), b.Collect()
	if len(ai) != len(bi) {
		t.Fatalf("length mismatch")
	}
	for i := range ai {
		if ai[i] != bi[i] {
			t.Fatalf("item %d differs: %+v vs %+v", i, ai[i], bi[i])
		}
	}
}

func TestDecode_TrailingBytesAfterExitIgnored(t *testing.T) {
	s, err := DecodeDirs([]byte("exit: 0\ngarbage"), "dirs")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected only the exit item, got %d", s.Len())
	}
}

func TestDecodeDirs(t *testing.T) {
	in := "info1: dir //depot/a\r\ninfo1: dir //depot/b\r\nerror: //depot/c/* - no such file(s).\r\nexit: 0\r\n"
	s, err := DecodeDirs([]byte(in), "dirs")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	items := s.Collect()
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}
	a, _ := items[0].Data()
	b, _ := items[1].Data()
	if a.Dir != "//depot/a" || b.Dir != "//depot/b" {
		t.Fatalf("unexpected dirs: %q %q", a.Dir, b.Dir)
	}
	if items[2].Kind() != KindMessage {
		t.Fatalf("expected message item")
	}
}

func TestDecodeDirs_InfoLineNotAccepted(t *testing.T) {
	_, err := DecodeDirs([]byte("info: hello\nexit: 0\n"), "dirs")
	if !IsParseFailed(err) {
		t.Fatalf("expected ParseFailed, got %v", err)
	}
}

func TestDecodeSync_SkipsTotalsTrailer(t *testing.T) {
	in := `info1: depotFile //depot/dir/file
info1: clientFile /home/user/depot/dir/file
info1: rev 1
info1: action added
info1: fileSize 1016
info1: totalFileSize 865153
info1: totalFileCount 24
info1: change 25662947
info1: depotFile //depot/dir/file1
info1: clientFile /home/user/depot/dir/file1
info1: rev 1
info1: action added
info1: fileSize 729154
exit: 0
`
	s, err := DecodeSync([]byte(in), "sync")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	items := s.Collect()
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	first, _ := items[0].Data()
	last, _ := items[1].Data()
	if first.DepotFile != "//depot/dir/file" || first.ClientFile != "/home/user/depot/dir/file" {
		t.Fatalf("unexpected first: %+v", first)
	}
	if first.Action != ActionAdded || first.FileSize != 1016 || first.Rev != 1 {
		t.Fatalf("unexpected first: %+v", first)
	}
	if last.DepotFile != "//depot/dir/file1" || last.FileSize != 729154 {
		t.Fatalf("unexpected last: %+v", last)
	}
}

func TestDecodeSync_IncompleteTrailerFails(t *testing.T) {
	in := `info1: depotFile //depot/dir/file
info1: clientFile /home/user/depot/dir/file
info1: rev 1
info1: action added
info1: fileSize 1016
info1: totalFileSize 865153
exit: 0
`
	_, err := DecodeSync([]byte(in), "sync")
	if !IsParseFailed(err) {
		t.Fatalf("expected ParseFailed, got %v", err)
	}
}

func TestDecodeSync_UpToDateInfo(t *testing.T) {
	s, err := DecodeSync([]byte("info: //depot/dir/... - file(s) up-to-date.\nexit: 0\n"), "sync")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	it, _ := s.Next()
	if m, ok := it.Message(); !ok || m.Level != LevelInfo || m.Text != "//depot/dir/... - file(s) up-to-date." {
		t.Fatalf("unexpected item: %+v", it)
	}
}

func TestDecodeWhere(t *testing.T) {
	in := `info1: depotFile //depot/dir/file
info1: clientFile //ws/dir/file
info1: path /home/user/ws/dir/file
exit: 0
`
	s, err := DecodeWhere([]byte(in), "where")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	it, _ := s.Next()
	m, ok := it.Data()
	if !ok {
		t.Fatalf("expected data item")
	}
	if m.DepotFile != "//depot/dir/file" || m.ClientFile != "//ws/dir/file" || m.Path != "/home/user/ws/dir/file" {
		t.Fatalf("unexpected mapping: %+v", m)
	}
}

func TestDecode_HardErrorAbortsDecode(t *testing.T) {
	in := "info1: depotFile //depot/a\ninfo1: rev three\nexit: 0\n"
	_, err := DecodeFiles([]byte(in), "files")
	if !IsParseFailed(err) || !errors.Is(err, ErrInvalidNumber) {
		t.Fatalf("expected invalid number, got %v", err)
	}
}
