package program

import (
	"github.com/spf13/afero"
)

func LoadBin(fs afero.Fs, fname string, base uint32) (*Image, error) {
	data, err := readFile(fs, fname)
	if err != nil {
		return nil, err
	}

	return &Image{
		Addr: base,
		Data: data,
	}, nil
}
