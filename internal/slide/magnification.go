package slide

import (
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// TIFF tag and field type constants used when walking the first IFD.
const (
	tagImageDescription = 270
	fieldTypeASCII      = 2
)

// extractMagnification reads the scanner magnification from a TIFF-family
// file. Aperio SVS and most scanner TIFFs store it as "AppMag = N" inside
// the ImageDescription tag of the first IFD.
func extractMagnification(path string) (float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	// Read TIFF header to determine byte order
	header := make([]byte, 8)
	if _, err := file.Read(header); err != nil {
		return 0, err
	}

	var byteOrder binary.ByteOrder
	if header[0] == 'I' && header[1] == 'I' {
		byteOrder = binary.LittleEndian
	} else if header[0] == 'M' && header[1] == 'M' {
		byteOrder = binary.BigEndian
	} else {
		return 0, fmt.Errorf("not a valid TIFF file")
	}

	// Get offset to first IFD
	ifdOffset := byteOrder.Uint32(header[4:8])

	// Seek to IFD
	if _, err := file.Seek(int64(ifdOffset), 0); err != nil {
		return 0, err
	}

	// Read number of directory entries
	var numEntries uint16
	if err := binary.Read(file, byteOrder, &numEntries); err != nil {
		return 0, err
	}

	// Scan entries for the ImageDescription tag
	for i := uint16(0); i < numEntries; i++ {
		entry := make([]byte, 12)
		if _, err := file.Read(entry); err != nil {
			return 0, err
		}

		tag := byteOrder.Uint16(entry[0:2])
		fieldType := byteOrder.Uint16(entry[2:4])
		count := byteOrder.Uint32(entry[4:8])
		valueOffset := byteOrder.Uint32(entry[8:12])

		if tag != tagImageDescription || fieldType != fieldTypeASCII {
			continue
		}

		desc, err := readTIFFString(file, entry, count, valueOffset)
		if err != nil {
			return 0, err
		}
		return ParseAppMag(desc)
	}

	return 0, fmt.Errorf("no image description tag found")
}

// readTIFFString reads an ASCII tag value. Values of 4 bytes or fewer are
// stored inline in the entry; longer values live at the offset.
func readTIFFString(file *os.File, entry []byte, count, offset uint32) (string, error) {
	if count <= 4 {
		return strings.TrimRight(string(entry[8:8+count]), "\x00"), nil
	}

	currentPos, _ := file.Seek(0, 1) // Save current position
	defer file.Seek(currentPos, 0)   // Restore position

	if _, err := file.Seek(int64(offset), 0); err != nil {
		return "", err
	}
	buf := make([]byte, count)
	if _, err := file.Read(buf); err != nil {
		return "", err
	}
	return strings.TrimRight(string(buf), "\x00"), nil
}

// ParseAppMag extracts the "AppMag = N" value from a slide image
// description string. Fields in scanner descriptions are pipe-separated.
func ParseAppMag(description string) (float64, error) {
	for _, field := range strings.Split(description, "|") {
		key, value, found := strings.Cut(field, "=")
		if !found {
			continue
		}
		if strings.TrimSpace(key) != "AppMag" {
			continue
		}
		mag, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, fmt.Errorf("bad AppMag value %q: %w", strings.TrimSpace(value), err)
		}
		return mag, nil
	}
	return 0, fmt.Errorf("no AppMag field in description")
}
