//go:build !linux

package netif

func NewSystem() (*Selector, func() error, error) {
	return nil, nil, ErrUnsupported
}
