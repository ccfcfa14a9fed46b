package pxfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/luxgrid/pxld/pkg/codec"
)

// ExtractSlave streams one slave's canonical bytes for the half-open frame
// range [from, to) to dst, frame order preserved. Returns the byte count
// written. Frames where the slave carries no data contribute nothing.
func ExtractSlave(r *Reader, slaveID uint8, from, to uint32, dst io.Writer) (int64, error) {
	if from > to || to > r.FrameCount() {
		return 0, &codec.FormatError{
			Kind:   codec.KindOutOfRange,
			Offset: -1,
			Msg:    fmt.Sprintf("frame range [%d,%d) outside [0,%d)", from, to, r.FrameCount()),
		}
	}

	var written int64
	for id := from; id < to; id++ {
		data, err := r.ReadSlaveData(id, slaveID)
		if err != nil {
			return written, err
		}
		n, err := dst.Write(data)
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("write slave %d frame %d: %w", slaveID, id, err)
		}
	}
	return written, nil
}

// SplitSlave extracts one slave over [from, to) into a raw capture file in
// dir, named <stem>_slave<id>_raw.bin, or with a _frames<A>to<B> suffix
// (inclusive bounds) when a sub-range was requested. Returns the written path.
func SplitSlave(r *Reader, slaveID uint8, from, to uint32, dir string) (string, error) {
	path := filepath.Join(dir, splitFileName(r.Path(), slaveID, from, to, r.FrameCount()))

	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", err
	}
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}

	buf := bufio.NewWriter(file)
	if _, err := ExtractSlave(r, slaveID, from, to, buf); err != nil {
		file.Close()
		os.Remove(path)
		return "", err
	}
	if err := buf.Flush(); err != nil {
		file.Close()
		os.Remove(path)
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// SplitAll extracts every slave in the file over its full frame range.
// Slave ids come from frame 0's table, the one table shape the file declares.
func SplitAll(r *Reader, dir string) ([]string, error) {
	if r.FrameCount() == 0 {
		return nil, fmt.Errorf("pxfile: %s has no frames to split", r.Path())
	}

	first, err := r.ReadFrame(0)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(first.Slaves))
	for _, e := range first.Slaves {
		path, err := SplitSlave(r, e.SlaveID, 0, r.FrameCount(), dir)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// VerifyRawCapture sanity-checks a split .bin file: its size must be a whole
// number of canonical pixel records. Returns the record count.
func VerifyRawCapture(path string) (int64, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if stat.Size()%codec.PixelRecordSize != 0 {
		return 0, &codec.FormatError{
			Kind:   codec.KindMisalignedSlaveData,
			Offset: stat.Size(),
			Msg: fmt.Sprintf("%s is %d bytes, not a whole number of %d-byte pixels",
				filepath.Base(path), stat.Size(), codec.PixelRecordSize),
		}
	}
	return stat.Size() / codec.PixelRecordSize, nil
}

// RangeInfo reports the playback extent of an open file: frame count, frame
// rate, and derived duration.
func RangeInfo(r *Reader) (frames uint32, fps uint8, duration time.Duration) {
	h := r.Header()
	return h.TotalFrames, h.FPS, h.Duration()
}

func splitFileName(path string, slaveID uint8, from, to, total uint32) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if from == 0 && to == total {
		return fmt.Sprintf("%s_slave%d_raw.bin", stem, slaveID)
	}
	end := to
	if end > 0 {
		end-- // file names use inclusive bounds
	}
	return fmt.Sprintf("%s_slave%d_raw_frames%dto%d.bin", stem, slaveID, from, end)
}
