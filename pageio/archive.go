package pageio

import (
	"archive/zip"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// WriteArchive writes the per-page output archive: page.txt always, and
// page.xml when structured output was produced. The archive is written
// atomically via a temporary file so a failed page never leaves a partial
// archive behind.
func WriteArchive(path string, plainText []byte, pageXML []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".compose-*")
	if err != nil {
		return errors.Wrapf(err, "create archive %s", path)
	}
	defer os.Remove(tmp.Name())

	zw := zip.NewWriter(tmp)
	if err := writeEntry(zw, "page.txt", plainText); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "archive %s", path)
	}
	if pageXML != nil {
		if err := writeEntry(zw, "page.xml", pageXML); err != nil {
			tmp.Close()
			return errors.Wrapf(err, "archive %s", path)
		}
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "archive %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "archive %s", path)
	}
	return errors.Wrapf(os.Rename(tmp.Name(), path), "archive %s", path)
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
