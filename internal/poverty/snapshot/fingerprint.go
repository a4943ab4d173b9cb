package snapshot

import (
	"fmt"
	"os"
	"time"
)

// FileStamp identifies one file by path, size and modification time. A missing
// file has Size -1.
type FileStamp struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Fingerprint identifies the pair of source files a load reads.
type Fingerprint struct {
	Data FileStamp
	Geo  FileStamp
}

func (f Fingerprint) String() string {
	return fmt.Sprintf("%s@%d:%d|%s@%d:%d",
		f.Data.Path, f.Data.Size, f.Data.ModTime.UnixNano(),
		f.Geo.Path, f.Geo.Size, f.Geo.ModTime.UnixNano())
}

// Take stats both files. Stat failures are folded into the stamp so the load
// itself reports them with the right error code.
func Take(dataPath, geoPath string) Fingerprint {
	return Fingerprint{Data: stamp(dataPath), Geo: stamp(geoPath)}
}

func stamp(path string) FileStamp {
	info, err := os.Stat(path)
	if err != nil {
		return FileStamp{Path: path, Size: -1}
	}
	return FileStamp{Path: path, Size: info.Size(), ModTime: info.ModTime().UTC()}
}
