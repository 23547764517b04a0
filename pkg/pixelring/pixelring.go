package pixelring

import (
	"image/color"
	"io"

	"github.com/pkg/errors"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"
	"periph.io/x/periph/devices/apa102"
)

// Ring is a chain of addressable pixels that is only ever filled with a single
// colour. Every Fill is flushed to the chain straight away.
type Ring struct {
	dev  io.Writer
	port spi.PortCloser
	buf  []byte
}

// Open connects to an APA102 (DotStar) chain on the named SPI port. The
// caller must have initialised periph's host drivers first.
func Open(portName string, numPixels int) (*Ring, error) {
	port, err := spireg.Open(portName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open SPI port %q", portName)
	}
	opts := apa102.DefaultOpts
	opts.NumPixels = numPixels
	dev, err := apa102.New(port, &opts)
	if err != nil {
		port.Close()
		return nil, errors.Wrap(err, "failed to open APA102 chain")
	}
	r := New(dev, numPixels)
	r.port = port
	return r, nil
}

// New wraps anything that accepts raw RGB frames, three bytes per pixel.
func New(dev io.Writer, numPixels int) *Ring {
	return &Ring{
		dev: dev,
		buf: make([]byte, 3*numPixels),
	}
}

func (r *Ring) NumPixels() int {
	return len(r.buf) / 3
}

func (r *Ring) Fill(c color.RGBA) error {
	for i := 0; i < len(r.buf); i += 3 {
		r.buf[i] = c.R
		r.buf[i+1] = c.G
		r.buf[i+2] = c.B
	}
	_, err := r.dev.Write(r.buf)
	return err
}

// Close blanks the ring and releases the SPI port.
func (r *Ring) Close() error {
	err := r.Fill(color.RGBA{})
	if r.port != nil {
		if cerr := r.port.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
