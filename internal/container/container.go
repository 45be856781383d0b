// Package container reads OLE2 compound files (CFB), the storage layer of
// HWP 5.x documents.
package container

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/richardlehane/mscfb"
)

// ErrStreamNotFound is returned when a named stream is absent.
var ErrStreamNotFound = errors.New("stream not found")

// ContainerError reports an image that is not a readable compound file.
type ContainerError struct {
	Err error
}

func (e *ContainerError) Error() string {
	return fmt.Sprintf("invalid compound file: %v", e.Err)
}

func (e *ContainerError) Unwrap() error {
	return e.Err
}

// StreamError names the stream a lookup failed for.
type StreamError struct {
	Name string
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("%s: %s", ErrStreamNotFound, e.Name)
}

func (e *StreamError) Unwrap() error {
	return ErrStreamNotFound
}

// Container is an immutable, fully loaded view of a compound file.
type Container struct {
	names   []string
	streams map[string][]byte
}

// Open parses a compound file image and loads every stream into memory.
// The input buffer is not retained.
func Open(data []byte) (*Container, error) {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return nil, &ContainerError{Err: err}
	}

	c := &Container{streams: make(map[string][]byte)}
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.FileInfo().IsDir() {
			continue
		}
		name := streamName(entry)
		payload, rerr := io.ReadAll(entry)
		if rerr != nil {
			return nil, &ContainerError{Err: fmt.Errorf("read %s: %w", name, rerr)}
		}
		if _, dup := c.streams[name]; !dup {
			c.names = append(c.names, name)
		}
		c.streams[name] = payload
	}
	return c, nil
}

// streamName joins the storage path and restores a control-character
// prefix (e.g. 0x05 on property-set streams) stripped by the reader.
func streamName(f *mscfb.File) string {
	name := f.Name
	if f.Initial != 0 && !unicode.IsPrint(rune(f.Initial)) {
		name = string(rune(f.Initial)) + name
	}
	if len(f.Path) == 0 {
		return name
	}
	return strings.Join(f.Path, "/") + "/" + name
}

// Names returns stream names in directory traversal order.
func (c *Container) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Has reports whether ReadStream would find name.
func (c *Container) Has(name string) bool {
	_, ok := c.lookup(name)
	return ok
}

// ReadStream returns a copy of the named stream. The name is tried as given,
// then without and with a leading separator.
func (c *Container) ReadStream(name string) ([]byte, error) {
	data, ok := c.lookup(name)
	if !ok {
		return nil, &StreamError{Name: name}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (c *Container) lookup(name string) ([]byte, bool) {
	candidates := []string{name}
	if strings.HasPrefix(name, "/") {
		candidates = append(candidates, strings.TrimPrefix(name, "/"))
	} else {
		candidates = append(candidates, "/"+name)
	}
	for _, n := range candidates {
		if data, ok := c.streams[n]; ok {
			return data, true
		}
	}
	return nil, false
}
