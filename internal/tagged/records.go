package tagged

import "time"

// Dir is one entry of `p4 dirs`.
type Dir struct {
	Dir string
}

// File is one entry of `p4 files`.
type File struct {
	DepotFile string
	Rev       int
	Change    int
	Action    Action
	Type      FileType
	Time      time.Time
}

// SyncedFile is one entry of `p4 sync`.
type SyncedFile struct {
	DepotFile  string
	ClientFile string
	Rev        int
	Action     Action
	FileSize   int64
}

// MappedFile is one entry of `p4 where`: the depot path, the client path in
// client syntax and the local filesystem path.
type MappedFile struct {
	DepotFile  string
	ClientFile string
	Path       string
}

func dirRecord(c *cursor) (Dir, bool, error) {
	dir, ok, err := dirField(c)
	if !ok || err != nil {
		return Dir{}, false, err
	}
	return Dir{Dir: dir}, true, nil
}

func fileRecord(c *cursor) (File, bool, error) {
	depot, ok, err := depotFileField(c)
	if !ok || err != nil {
		return File{}, false, err
	}
	rev, ok, err := revField(c)
	if !ok || err != nil {
		return File{}, false, err
	}
	change, ok, err := changeField(c)
	if !ok || err != nil {
		return File{}, false, err
	}
	action, ok, err := actionField(c)
	if !ok || err != nil {
		return File{}, false, err
	}
	ft, ok, err := typeField(c)
	if !ok || err != nil {
		return File{}, false, err
	}
	epoch, ok, err := timeField(c)
	if !ok || err != nil {
		return File{}, false, err
	}
	return File{
		DepotFile: depot,
		Rev:       rev,
		Change:    change,
		Action:    Action(action),
		Type:      ParseFileType(ft),
		Time:      time.Unix(epoch, 0).UTC(),
	}, true, nil
}

func syncedFileRecord(c *cursor) (SyncedFile, bool, error) {
	depot, ok, err := depotFileField(c)
	if !ok || err != nil {
		return SyncedFile{}, false, err
	}
	client, ok, err := clientFileField(c)
	if !ok || err != nil {
		return SyncedFile{}, false, err
	}
	rev, ok, err := revField(c)
	if !ok || err != nil {
		return SyncedFile{}, false, err
	}
	action, ok, err := actionField(c)
	if !ok || err != nil {
		return SyncedFile{}, false, err
	}
	size, ok, err := fileSizeField(c)
	if !ok || err != nil {
		return SyncedFile{}, false, err
	}
	if err := skipSyncTrailer(c); err != nil {
		return SyncedFile{}, false, err
	}
	return SyncedFile{
		DepotFile:  depot,
		ClientFile: client,
		Rev:        rev,
		Action:     Action(action),
		FileSize:   size,
	}, true, nil
}

// skipSyncTrailer discards the totals block sync prints after some records:
// two info1 lines followed by a change line. Nothing is consumed unless all
// three lines are present.
func skipSyncTrailer(c *cursor) error {
	mark := c.pos
	if !anyInfo1Field(c) || !anyInfo1Field(c) {
		c.pos = mark
		return nil
	}
	_, ok, err := changeField(c)
	if err != nil {
		return err
	}
	if !ok {
		c.pos = mark
	}
	return nil
}

func mappedFileRecord(c *cursor) (MappedFile, bool, error) {
	depot, ok, err := depotFileField(c)
	if !ok || err != nil {
		return MappedFile{}, false, err
	}
	client, ok, err := clientFileField(c)
	if !ok || err != nil {
		return MappedFile{}, false, err
	}
	path, ok, err := pathField(c)
	if !ok || err != nil {
		return MappedFile{}, false, err
	}
	return MappedFile{DepotFile: depot, ClientFile: client, Path: path}, true, nil
}
