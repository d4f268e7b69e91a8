package fs

import (
	"errors"
	"fmt"
	"io"
	"os"
)

const filePerms = 0o644

// ErrTargetExists is returned by [CopyFile] when the destination already exists.
var ErrTargetExists = errors.New("target file already exists")

// AppendLine appends line and a trailing newline to path, creating the file
// if needed.
func AppendLine(fsys FS, path, line string) error {
	f, err := fsys.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerms)
	if err != nil {
		return err
	}

	_, err = io.WriteString(f, line+"\n")
	closeErr := f.Close()

	if err != nil {
		return err
	}

	return closeErr
}

// CopyFile copies src to dst. dst must not exist.
func CopyFile(fsys FS, src, dst string) error {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fsys.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, filePerms)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrTargetExists, dst)
		}

		return err
	}

	_, err = io.Copy(out, in)
	closeErr := out.Close()

	if err != nil {
		_ = fsys.Remove(dst)

		return err
	}

	return closeErr
}
