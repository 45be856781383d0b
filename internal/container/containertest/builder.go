// Package containertest builds small compound-file images for tests.
package containertest

import (
	"encoding/binary"
	"sort"
	"strings"
	"unicode/utf16"
)

const (
	sectorSize     = 512
	miniSectorSize = 64
	miniCutoff     = 4096
	entriesPerFAT  = sectorSize / 4

	fatSect    uint32 = 0xFFFFFFFD
	endOfChain uint32 = 0xFFFFFFFE
	freeSect   uint32 = 0xFFFFFFFF
	noStream   uint32 = 0xFFFFFFFF

	typeStorage = 1
	typeStream  = 2
	typeRoot    = 5
)

type node struct {
	name     string
	kind     byte
	data     []byte
	children []*node

	id    uint32
	right uint32
	start uint32
	size  uint32
}

// Build returns a version 3 compound file holding the given streams. Keys are
// slash separated paths; intermediate storages are created as needed.
func Build(streams map[string][]byte) []byte {
	root := &node{name: "Root Entry", kind: typeRoot}
	paths := make([]string, 0, len(streams))
	for p := range streams {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		insert(root, strings.Split(strings.TrimPrefix(p, "/"), "/"), streams[p])
	}

	var entries []*node
	var number func(n *node)
	number = func(n *node) {
		n.id = uint32(len(entries))
		n.right = noStream
		entries = append(entries, n)
		for _, c := range n.children {
			number(c)
		}
	}
	number(root)
	for _, n := range entries {
		for i := 0; i+1 < len(n.children); i++ {
			n.children[i].right = n.children[i+1].id
		}
	}

	// mini stream and big streams
	var mini []byte
	var miniFAT []uint32
	var big []*node
	for _, n := range entries {
		if n.kind != typeStream {
			continue
		}
		n.size = uint32(len(n.data))
		switch {
		case len(n.data) == 0:
			n.start = endOfChain
		case len(n.data) < miniCutoff:
			n.start = uint32(len(miniFAT))
			count := (len(n.data) + miniSectorSize - 1) / miniSectorSize
			for i := 0; i < count; i++ {
				next := uint32(len(miniFAT) + 1)
				if i == count-1 {
					next = endOfChain
				}
				miniFAT = append(miniFAT, next)
			}
			mini = append(mini, pad(n.data, miniSectorSize)...)
		default:
			big = append(big, n)
		}
	}

	dirSectors := ceil(len(entries)*128, sectorSize)
	miniFATSectors := ceil(len(miniFAT)*4, sectorSize)
	miniStreamSectors := ceil(len(mini), sectorSize)
	bigSectors := 0
	for _, n := range big {
		bigSectors += ceil(len(n.data), sectorSize)
	}
	body := dirSectors + miniFATSectors + miniStreamSectors + bigSectors
	fatSectors := 1
	for fatSectors*entriesPerFAT < fatSectors+body {
		fatSectors++
	}

	fat := make([]uint32, fatSectors*entriesPerFAT)
	for i := range fat {
		fat[i] = freeSect
	}
	for i := 0; i < fatSectors; i++ {
		fat[i] = fatSect
	}
	next := uint32(fatSectors)
	chain := func(count int) uint32 {
		if count == 0 {
			return endOfChain
		}
		start := next
		for i := 0; i < count; i++ {
			if i == count-1 {
				fat[next] = endOfChain
			} else {
				fat[next] = next + 1
			}
			next++
		}
		return start
	}
	dirStart := chain(dirSectors)
	miniFATStart := chain(miniFATSectors)
	miniStreamStart := chain(miniStreamSectors)
	for _, n := range big {
		n.start = chain(ceil(len(n.data), sectorSize))
	}
	root.start = miniStreamStart
	root.size = uint32(len(mini))

	out := make([]byte, sectorSize*(1+int(next)))
	writeHeader(out[:sectorSize], fatSectors, dirStart, miniFATStart, miniFATSectors)

	sector := func(i uint32) []byte {
		off := int(i+1) * sectorSize
		return out[off:]
	}
	for i := 0; i < fatSectors; i++ {
		s := sector(uint32(i))
		for j := 0; j < entriesPerFAT; j++ {
			binary.LittleEndian.PutUint32(s[j*4:], fat[i*entriesPerFAT+j])
		}
	}

	dir := make([]byte, dirSectors*sectorSize)
	for slot := 0; slot < dirSectors*sectorSize/128; slot++ {
		e := dir[slot*128 : (slot+1)*128]
		binary.LittleEndian.PutUint32(e[68:], noStream)
		binary.LittleEndian.PutUint32(e[72:], noStream)
		binary.LittleEndian.PutUint32(e[76:], noStream)
	}
	for _, n := range entries {
		writeEntry(dir[n.id*128:(n.id+1)*128], n)
	}
	copy(sector(dirStart), dir)

	if miniFATSectors > 0 {
		mf := make([]byte, miniFATSectors*sectorSize)
		for i := 0; i < len(mf)/4; i++ {
			v := freeSect
			if i < len(miniFAT) {
				v = miniFAT[i]
			}
			binary.LittleEndian.PutUint32(mf[i*4:], v)
		}
		copy(sector(miniFATStart), mf)
	}
	if miniStreamSectors > 0 {
		copy(sector(miniStreamStart), mini)
	}
	for _, n := range big {
		copy(sector(n.start), n.data)
	}
	return out
}

func insert(parent *node, parts []string, data []byte) {
	if len(parts) == 1 {
		parent.children = append(parent.children, &node{name: parts[0], kind: typeStream, data: data})
		return
	}
	for _, c := range parent.children {
		if c.kind == typeStorage && c.name == parts[0] {
			insert(c, parts[1:], data)
			return
		}
	}
	storage := &node{name: parts[0], kind: typeStorage}
	parent.children = append(parent.children, storage)
	insert(storage, parts[1:], data)
}

func writeHeader(h []byte, fatSectors int, dirStart, miniFATStart uint32, miniFATSectors int) {
	binary.LittleEndian.PutUint64(h[0:], 0xE11AB1A1E011CFD0)
	binary.LittleEndian.PutUint16(h[24:], 0x003E)
	binary.LittleEndian.PutUint16(h[26:], 3)
	binary.LittleEndian.PutUint16(h[28:], 0xFFFE)
	binary.LittleEndian.PutUint16(h[30:], 9)
	binary.LittleEndian.PutUint16(h[32:], 6)
	binary.LittleEndian.PutUint32(h[44:], uint32(fatSectors))
	binary.LittleEndian.PutUint32(h[48:], dirStart)
	binary.LittleEndian.PutUint32(h[56:], miniCutoff)
	binary.LittleEndian.PutUint32(h[60:], miniFATStart)
	binary.LittleEndian.PutUint32(h[64:], uint32(miniFATSectors))
	binary.LittleEndian.PutUint32(h[68:], endOfChain)
	binary.LittleEndian.PutUint32(h[72:], 0)
	for i := 0; i < 109; i++ {
		v := freeSect
		if i < fatSectors {
			v = uint32(i)
		}
		binary.LittleEndian.PutUint32(h[76+i*4:], v)
	}
}

func writeEntry(e []byte, n *node) {
	units := utf16.Encode([]rune(n.name))
	for i, u := range units {
		binary.LittleEndian.PutUint16(e[i*2:], u)
	}
	binary.LittleEndian.PutUint16(e[64:], uint16((len(units)+1)*2))
	e[66] = n.kind
	e[67] = 1
	child := noStream
	if len(n.children) > 0 {
		child = n.children[0].id
	}
	binary.LittleEndian.PutUint32(e[72:], n.right)
	binary.LittleEndian.PutUint32(e[76:], child)
	if n.kind != typeStorage {
		binary.LittleEndian.PutUint32(e[116:], n.start)
		binary.LittleEndian.PutUint32(e[120:], n.size)
	}
}

func pad(b []byte, unit int) []byte {
	out := make([]byte, ceil(len(b), unit)*unit)
	copy(out, b)
	return out
}

func ceil(n, unit int) int {
	return (n + unit - 1) / unit
}
