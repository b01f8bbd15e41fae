// Package discovery finds the per-participant recordings of a Zoom-style
// meeting folder:
//
//	<meeting>/
//	    <master>.m4a
//	    Audio Record/
//	        audio<Name><rec><dup><9 digits>.m4a
//	        ...
package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nguyentantai21042004/meetnotes/internal/logger"
	"github.com/nguyentantai21042004/meetnotes/internal/transcript"
)

var (
	reSpeakerFile = regexp.MustCompile(`(?i)^audio(?P<name>.+?)(?P<recording>\d)(?P<duplicate>\d)(?P<magic>\d{9})$`)
	reZoomFolder  = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s+(\d{2}\.\d{2}\.\d{2})\s+(.*)$`)
)

// audioExts are the recording containers picked up from the folder.
var audioExts = map[string]bool{
	".m4a": true,
	".mp3": true,
	".mp4": true,
	".aac": true,
	".ogg": true,
	".wav": true,
}

// Speaker is one participant with the recordings made for them, in
// duplicate order. A speaker who dropped out and rejoined has several.
type Speaker struct {
	Name  string
	Files []string
}

// Layout is what was found in a meeting folder.
type Layout struct {
	Folder         string
	AudioRecordDir string
	// Master holds recordings of the whole meeting in the folder root.
	Master []string
	// Speakers is sorted by name; this is the stream discovery order.
	Speakers []Speaker
}

// Split reports whether any speaker has more than one recording.
func (l *Layout) Split() bool {
	for _, s := range l.Speakers {
		if len(s.Files) > 1 {
			return true
		}
	}
	return false
}

// SpeakerName extracts the participant name from a Zoom per-speaker file
// name such as "audioAlice11234567890.m4a".
func SpeakerName(file string) (string, bool) {
	name, _, ok := parseSpeakerFile(file)
	return name, ok
}

func parseSpeakerFile(file string) (name string, duplicate int, ok bool) {
	base := filepath.Base(file)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	m := reSpeakerFile.FindStringSubmatch(stem)
	if m == nil {
		return "", 0, false
	}
	dup, _ := strconv.Atoi(m[reSpeakerFile.SubexpIndex("duplicate")])
	return strings.TrimSpace(m[reSpeakerFile.SubexpIndex("name")]), dup, true
}

// Discover lists the meeting's recordings. Files that do not follow the
// Zoom naming pattern are kept, named after their file stem.
func Discover(ctx context.Context, folder, audioRecordDir string, log logger.Logger) (*Layout, error) {
	info, err := os.Stat(folder)
	if err != nil {
		return nil, fmt.Errorf("meeting folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("meeting folder %s is not a directory", folder)
	}

	layout := &Layout{
		Folder:         folder,
		AudioRecordDir: filepath.Join(folder, audioRecordDir),
	}

	master, err := audioFiles(folder)
	if err != nil {
		return nil, fmt.Errorf("list meeting folder: %w", err)
	}
	layout.Master = master

	if info, err := os.Stat(layout.AudioRecordDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%s is not a valid directory, a per-speaker %q folder is required", layout.AudioRecordDir, audioRecordDir)
	}

	files, err := audioFiles(layout.AudioRecordDir)
	if err != nil {
		return nil, fmt.Errorf("list audio record folder: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no audio files in %s: %w", layout.AudioRecordDir, &transcript.EmptyMeetingError{})
	}

	type entry struct {
		dup  int
		path string
	}
	bySpeaker := make(map[string][]entry)
	var unmatched []string
	for _, f := range files {
		name, dup, ok := parseSpeakerFile(f)
		if !ok {
			unmatched = append(unmatched, f)
			continue
		}
		bySpeaker[name] = append(bySpeaker[name], entry{dup: dup, path: f})
	}

	// A file named after its stem is never merged into a Zoom speaker.
	for _, f := range unmatched {
		stem := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		name := stem
		for i := 2; len(bySpeaker[name]) > 0; i++ {
			name = fmt.Sprintf("%s (%d)", stem, i)
		}
		if name != stem {
			log.Warn(ctx, "Speaker %q already exists, using %q for %s", stem, name, filepath.Base(f))
		}
		log.Warn(ctx, "File %s does not match the Zoom pattern audio<name><rec><dup><9 digits>, using %q as speaker", filepath.Base(f), name)
		bySpeaker[name] = []entry{{path: f}}
	}

	for name, entries := range bySpeaker {
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].dup < entries[j].dup })
		sp := Speaker{Name: name}
		for _, e := range entries {
			sp.Files = append(sp.Files, e.path)
		}
		layout.Speakers = append(layout.Speakers, sp)
	}
	sort.Slice(layout.Speakers, func(i, j int) bool { return layout.Speakers[i].Name < layout.Speakers[j].Name })

	return layout, nil
}

// audioFiles returns the recordings directly inside dir, sorted. When both
// a container file and its converted .wav exist, only the container is kept.
func audioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	byStem := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !audioExts[ext] {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if prev, ok := byStem[stem]; ok && strings.ToLower(filepath.Ext(prev)) != ".wav" {
			continue
		}
		byStem[stem] = filepath.Join(dir, e.Name())
	}

	files := make([]string, 0, len(byStem))
	for _, f := range byStem {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

// StartTimeFromFolder reads the meeting start from a Zoom folder name such
// as "2023-01-01 10.00.00 Alice's Zoom Meeting".
func StartTimeFromFolder(folder string) (time.Time, bool) {
	m := reZoomFolder.FindStringSubmatch(filepath.Base(filepath.Clean(folder)))
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("2006-01-02 15.04.05", m[1]+" "+m[2], time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Title returns the meeting name from a Zoom folder name, or the folder
// base name.
func Title(folder string) string {
	base := filepath.Base(filepath.Clean(folder))
	if m := reZoomFolder.FindStringSubmatch(base); m != nil && strings.TrimSpace(m[3]) != "" {
		return strings.TrimSpace(m[3])
	}
	return base
}
