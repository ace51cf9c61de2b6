/*
Copyright 2025 The goARRG Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package ngfxc

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
)

// metadataMagic is the fixed sentinel value written as the first header
// word of every pipeline metadata artifact (§6.4).
const metadataMagic uint32 = 0x4e474658 // "NGFX"

// metadataHeaderSize is the fixed header size in bytes (§6.4, word 2).
const metadataHeaderSize uint32 = 32

// metadataVersionMajor, metadataVersionMinor are the format version words
// written into the header (§6.4, words 3-4).
const (
	metadataVersionMajor uint32 = 1
	metadataVersionMinor uint32 = 0
)

// metadataWriter accumulates records and patches their offsets into the
// 32-byte header once all records have been emitted (§4.8).
type metadataWriter struct {
	buf          []byte
	layoutOffset uint32
	imageOffset  uint32
	samplerOffset uint32
	userOffset   uint32
}

func (w *metadataWriter) putU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *metadataWriter) putString(s string) error {
	if strings.IndexByte(s, 0) >= 0 {
		return fmt.Errorf("ngfxc: string %q contains an embedded NUL", s)
	}
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0)
	return nil
}

// align pads buf to the next 4-byte boundary (§4.8).
func (w *metadataWriter) align() {
	for len(w.buf)%4 != 0 {
		w.buf = append(w.buf, 0)
	}
}

func (w *metadataWriter) startRecord() uint32 {
	w.align()
	return uint32(len(w.buf))
}

func (w *metadataWriter) writeLayout(layout *PipelineLayout) {
	w.layoutOffset = w.startRecord()
	indices := layout.SetIndices()
	w.putU32(uint32(len(indices)))
	for _, idx := range indices {
		dsl := layout.SetAt(idx)
		descs := dsl.Descriptors()
		w.putU32(uint32(len(descs)))
		for _, d := range descs {
			w.putU32(uint32(d.AssignedSlot))
			w.putU32(uint32(d.Type))
			w.putU32(uint32(d.StageMask))
		}
	}
}

func (w *metadataWriter) writeSeparateToCombinedMap(m *SeparateToCombinedMap) {
	entries := m.Entries()
	w.putU32(uint32(len(entries)))
	for _, e := range entries {
		w.putU32(e.ID)
		w.putU32(uint32(len(e.Entry.CombinedIDs)))
		for _, c := range e.Entry.CombinedIDs {
			w.putU32(c)
		}
	}
}

func (w *metadataWriter) writeUserMetadata(pairs []metaEntry) error {
	w.userOffset = w.startRecord()
	w.putU32(uint32(len(pairs)))
	for _, p := range pairs {
		if err := w.putString(p.Key); err != nil {
			return err
		}
		if err := w.putString(p.Value); err != nil {
			return err
		}
	}
	return nil
}

// WritePipelineMetadata serializes the binary pipeline metadata artifact
// described in §6.4 to w.
func WritePipelineMetadata(w io.Writer, layout *PipelineLayout, imageMap, samplerMap *SeparateToCombinedMap, userMetadata []metaEntry) error {
	mw := &metadataWriter{}

	mw.writeLayout(layout)

	mw.imageOffset = mw.startRecord()
	mw.writeSeparateToCombinedMap(imageMap)

	mw.samplerOffset = mw.startRecord()
	mw.writeSeparateToCombinedMap(samplerMap)

	if err := mw.writeUserMetadata(userMetadata); err != nil {
		return err
	}

	header := make([]byte, 0, metadataHeaderSize)
	putU32 := func(v uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		header = append(header, b[:]...)
	}
	putU32(metadataMagic)
	putU32(metadataHeaderSize)
	putU32(metadataVersionMajor)
	putU32(metadataVersionMinor)
	putU32(metadataHeaderSize + mw.layoutOffset)
	putU32(metadataHeaderSize + mw.imageOffset)
	putU32(metadataHeaderSize + mw.samplerOffset)
	putU32(metadataHeaderSize + mw.userOffset)

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(header); err != nil {
		return err
	}
	if _, err := bw.Write(mw.buf); err != nil {
		return err
	}
	return bw.Flush()
}

// DecodedDescriptor is one descriptor as read back from a pipeline-layout
// record (§6.4): only the three fields the wire format carries.
type DecodedDescriptor struct {
	AssignedSlot uint32
	Type         DescriptorType
	StageMask    ShaderStageMask
}

// DecodedSeparateEntry is one entry read back from a separate-to-combined
// record (§6.4).
type DecodedSeparateEntry struct {
	SeparateID  uint32
	CombinedIDs []uint32
}

// DecodedMetadata is the fully parsed contents of a `.pipeline` file,
// produced by ReadPipelineMetadata for the round-trip invariant (§8 #6).
type DecodedMetadata struct {
	VersionMajor uint32
	VersionMinor uint32
	Layout       [][]DecodedDescriptor
	ImageMap     []DecodedSeparateEntry
	SamplerMap   []DecodedSeparateEntry
	UserMetadata []metaEntry
}

type metadataReader struct {
	buf []byte
	pos int
}

func (r *metadataReader) u32() (uint32, error) {
	if r.pos+4 > len(r.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *metadataReader) cstring() (string, error) {
	start := r.pos
	for r.pos < len(r.buf) && r.buf[r.pos] != 0 {
		r.pos++
	}
	if r.pos >= len(r.buf) {
		return "", io.ErrUnexpectedEOF
	}
	s := string(r.buf[start:r.pos])
	r.pos++
	return s, nil
}

func (r *metadataReader) seek(offset uint32) { r.pos = int(offset) }

func (r *metadataReader) separateToCombinedMap() ([]DecodedSeparateEntry, error) {
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	entries := make([]DecodedSeparateEntry, n)
	for i := range entries {
		id, err := r.u32()
		if err != nil {
			return nil, err
		}
		count, err := r.u32()
		if err != nil {
			return nil, err
		}
		combined := make([]uint32, count)
		for j := range combined {
			combined[j], err = r.u32()
			if err != nil {
				return nil, err
			}
		}
		entries[i] = DecodedSeparateEntry{SeparateID: id, CombinedIDs: combined}
	}
	return entries, nil
}

// ReadPipelineMetadata parses a `.pipeline` file per §6.4.
func ReadPipelineMetadata(data []byte) (*DecodedMetadata, error) {
	r := &metadataReader{buf: data}

	magic, err := r.u32()
	if err != nil {
		return nil, err
	}
	if magic != metadataMagic {
		return nil, fmt.Errorf("ngfxc: bad magic %#x", magic)
	}
	headerSize, err := r.u32()
	if err != nil {
		return nil, err
	}
	if headerSize != metadataHeaderSize {
		return nil, fmt.Errorf("ngfxc: unexpected header size %d", headerSize)
	}
	versionMajor, err := r.u32()
	if err != nil {
		return nil, err
	}
	versionMinor, err := r.u32()
	if err != nil {
		return nil, err
	}
	layoutOffset, err := r.u32()
	if err != nil {
		return nil, err
	}
	imageOffset, err := r.u32()
	if err != nil {
		return nil, err
	}
	samplerOffset, err := r.u32()
	if err != nil {
		return nil, err
	}
	userOffset, err := r.u32()
	if err != nil {
		return nil, err
	}

	md := &DecodedMetadata{VersionMajor: versionMajor, VersionMinor: versionMinor}

	r.seek(layoutOffset)
	numSets, err := r.u32()
	if err != nil {
		return nil, err
	}
	md.Layout = make([][]DecodedDescriptor, numSets)
	for i := range md.Layout {
		numDescs, err := r.u32()
		if err != nil {
			return nil, err
		}
		descs := make([]DecodedDescriptor, numDescs)
		for j := range descs {
			slot, err := r.u32()
			if err != nil {
				return nil, err
			}
			typ, err := r.u32()
			if err != nil {
				return nil, err
			}
			mask, err := r.u32()
			if err != nil {
				return nil, err
			}
			descs[j] = DecodedDescriptor{AssignedSlot: slot, Type: DescriptorType(typ), StageMask: ShaderStageMask(mask)}
		}
		md.Layout[i] = descs
	}

	r.seek(imageOffset)
	if md.ImageMap, err = r.separateToCombinedMap(); err != nil {
		return nil, err
	}

	r.seek(samplerOffset)
	if md.SamplerMap, err = r.separateToCombinedMap(); err != nil {
		return nil, err
	}

	r.seek(userOffset)
	numPairs, err := r.u32()
	if err != nil {
		return nil, err
	}
	md.UserMetadata = make([]metaEntry, numPairs)
	for i := range md.UserMetadata {
		key, err := r.cstring()
		if err != nil {
			return nil, err
		}
		value, err := r.cstring()
		if err != nil {
			return nil, err
		}
		md.UserMetadata[i] = metaEntry{Key: key, Value: value}
	}

	return md, nil
}
