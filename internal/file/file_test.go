package file

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"testing/fstest"

	"filippo.io/age"

	"github.com/trackfx/trackfx/internal/analysis"
	"github.com/trackfx/trackfx/internal/chart"
)

const testChart = `
name: Fixture
tracks:
  - instrument: guitar
    parts:
      - difficulty: expert
        phrases:
          - {time: 1, time_end: 2, type: star_power}
  - instrument: bass
    parts:
      - difficulty: expert
        phrases:
          - {time: 1, time_end: 2, type: star_power}
`

func encrypt(t *testing.T, plaintext []byte, passphrase string) []byte {
	t.Helper()
	r, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		t.Fatalf("could not build recipient: %v", err)
	}
	r.SetWorkFactor(10)
	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, r)
	if err != nil {
		t.Fatalf("could not start encrypting: %v", err)
	}
	if _, err := w.Write(plaintext); err != nil {
		t.Fatalf("could not encrypt: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("could not finish encrypting: %v", err)
	}
	return buf.Bytes()
}

func testFS(t *testing.T) fstest.MapFS {
	return fstest.MapFS{
		"song.yml":     {Data: []byte(testChart)},
		"song.yml.age": {Data: encrypt(t, []byte(testChart), "hunter2")},
		"pass.txt":     {Data: []byte("hunter2\n")},
		"song.txt":     {Data: []byte(testChart)},
		"config.yml":   {Data: []byte("note_speed: 12\ninstruments: [bass]\n")},
		"bad.yml":      {Data: []byte("note_sped: 12\n")},
		"options.yml":  {Data: []byte("input_file: song.yml.age\npassphrase_file: pass.txt\n")},
	}
}

var testSum = fmt.Sprintf("%x", sha256.Sum256([]byte(testChart)))

func TestReadChart(t *testing.T) {
	fsys := testFS(t)
	song, sum, err := ReadChart(fsys, "song.yml", "")
	if err != nil {
		t.Fatalf("ReadChart failed: %v", err)
	}
	if sum != testSum || song.Name != "Fixture" {
		t.Errorf("got %q, %v", song.Name, sum)
	}
	song, sum, err = ReadChart(fsys, "song.yml.age", "hunter2")
	if err != nil {
		t.Fatalf("ReadChart of encrypted chart failed: %v", err)
	}
	if sum != testSum || len(song.FiveFret) != 2 {
		t.Errorf("encrypted chart differs: %v, %+v", sum, song)
	}
	if _, _, err := ReadChart(fsys, "song.yml.age", ""); !errors.Is(err, ErrNeedPassphrase) {
		t.Errorf("got error %v, want %v", err, ErrNeedPassphrase)
	}
	if _, _, err := ReadChart(fsys, "song.yml.age", "wrong"); err == nil {
		t.Errorf("wrong passphrase accepted")
	}
	if _, _, err := ReadChart(fsys, "song.txt", ""); err == nil {
		t.Errorf("unknown format accepted")
	}
}

func TestReadConfig(t *testing.T) {
	fsys := testFS(t)
	config, err := ReadConfig(fsys, "config.yml")
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}
	if config.NoteSpeed != 12 || config.TransitionScale != analysis.DefaultConfig().TransitionScale {
		t.Errorf("got config %+v", config)
	}
	if len(config.Instruments) != 1 || config.Instruments[0] != chart.FiveFretBass {
		t.Errorf("got instruments %v", config.Instruments)
	}
	if _, err := ReadConfig(fsys, "bad.yml"); err == nil {
		t.Errorf("misspelt setting accepted")
	}
}

type memCache map[string]*analysis.Result

func (c memCache) Load(sum, key string) (*analysis.Result, bool, error) {
	r, ok := c[sum+key]
	return r, ok, nil
}

func (c memCache) Save(sum, key string, r *analysis.Result) error {
	c[sum+key] = r
	return nil
}

func TestProcess(t *testing.T) {
	fsys := testFS(t)
	config := analysis.DefaultConfig()
	options, err := ReadOptions(fsys, "options.yml")
	if err != nil {
		t.Fatalf("ReadOptions failed: %v", err)
	}
	cache := memCache{}
	res, err := ProcessCached(fsys, &config, options, cache)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if options.InputFileSHA256 != testSum || res.SHA256 != testSum {
		t.Errorf("checksum not filled in: %v, %v", options.InputFileSHA256, res.SHA256)
	}
	if len(res.Instruments) != 2 || len(res.Instruments[0].Unisons) != 1 {
		t.Errorf("got result %+v", res)
	}
	if len(cache) != 1 {
		t.Errorf("result not cached")
	}
	again, err := ProcessCached(fsys, &config, options, cache)
	if err != nil || again != res {
		t.Errorf("cached result not used: %v", err)
	}

	options.InputFileSHA256 = "0000"
	if _, err := Process(fsys, &config, options); err == nil {
		t.Errorf("mismatching checksum accepted")
	}
}

func TestWriteOptions(t *testing.T) {
	dir := t.TempDir()
	options := &analysis.Options{
		InputFile:       "song.mid",
		InputFileSHA256: testSum,
		Title:           "Fixture",
		NoteSpeed:       9.5,
	}
	if err := WriteOptions(filepath.Join(dir, "song.yml"), options); err != nil {
		t.Fatalf("WriteOptions failed: %v", err)
	}
	got, err := ReadOptions(os.DirFS(dir), "song.yml")
	if err != nil {
		t.Fatalf("ReadOptions failed: %v", err)
	}
	if !reflect.DeepEqual(got, options) {
		t.Errorf("got %+v, want %+v", got, options)
	}
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Errorf("stray files left behind: %v, %v", entries, err)
	}
}

func TestDumpChart(t *testing.T) {
	fsys := testFS(t)
	options, err := ReadOptions(fsys, "options.yml")
	if err != nil {
		t.Fatalf("ReadOptions failed: %v", err)
	}
	dir := t.TempDir()
	if err := DumpChart(fsys, options, filepath.Join(dir, "song.yml")); err != nil {
		t.Fatalf("DumpChart failed: %v", err)
	}
	want, _, err := ReadChart(fsys, "song.yml", "")
	if err != nil {
		t.Fatalf("ReadChart failed: %v", err)
	}
	got, _, err := ReadChart(os.DirFS(dir), "song.yml", "")
	if err != nil {
		t.Fatalf("ReadChart of the dump failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}
