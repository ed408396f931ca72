package file

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"filippo.io/age"

	"github.com/trackfx/trackfx/internal/chart"
)

// ErrNeedPassphrase is returned when opening an encrypted chart without a passphrase.
var ErrNeedPassphrase = errors.New("encrypted chart needs a passphrase")

func decrypt(ciphertext []byte, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, ErrNeedPassphrase
	}
	id, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("could not build scrypt identity: %w", err)
	}
	r, err := age.Decrypt(bytes.NewReader(ciphertext), id)
	if err != nil {
		return nil, fmt.Errorf("could not start decrypting: %w", err)
	}
	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not finish decrypting: %w", err)
	}
	return plaintext, nil
}

// ReadChart reads a MIDI or YAML chart, decrypting it first if its name ends
// in .age. It also returns the hex SHA-256 of the decrypted chart.
func ReadChart(fsys fs.FS, name, passphrase string) (*chart.Song, string, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, "", fmt.Errorf("could not read %v: %v", name, err)
	}
	format := name
	if strings.HasSuffix(name, ".age") {
		format = strings.TrimSuffix(name, ".age")
		data, err = decrypt(data, passphrase)
		if err != nil {
			return nil, "", fmt.Errorf("could not decrypt %v: %w", name, err)
		}
	}
	sum := fmt.Sprintf("%x", sha256.Sum256(data))

	var song *chart.Song
	switch ext := strings.ToLower(path.Ext(format)); ext {
	case ".mid", ".midi":
		song, err = chart.ReadMIDIFrom(bytes.NewReader(data))
	case ".yml", ".yaml":
		song, err = chart.ReadYAML(bytes.NewReader(data))
	default:
		return nil, "", fmt.Errorf("unknown chart format %q of %v", ext, name)
	}
	if err != nil {
		return nil, "", fmt.Errorf("could not parse %v: %w", name, err)
	}
	return song, sum, nil
}

// ReadPassphrase reads the first line of the named file. An empty name means
// no passphrase.
func ReadPassphrase(fsys fs.FS, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", fmt.Errorf("could not read passphrase: %v", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
