package mediaquery

import "cssval/resolve"

// PixelCompare orders two feature values through the length resolver
// with no element context: absolute lengths, resolutions and bare
// numbers compare within their families, and relative units fall back
// to the resolver defaults.
func PixelCompare(left, right string) (int, error) {
	return compareResolved(nil, left, right)
}

// ContextCompare builds a CompareFunc whose font- and viewport-relative
// units resolve against ctx.
func ContextCompare(ctx resolve.Context) CompareFunc {
	return func(left, right string) (int, error) {
		return compareResolved(ctx, left, right)
	}
}

func compareResolved(ctx resolve.Context, left, right string) (int, error) {
	l, err := resolve.Parse(left)
	if err != nil {
		return 0, err
	}
	r, err := resolve.Parse(right)
	if err != nil {
		return 0, err
	}
	if ctx != nil {
		l = l.WithContext(ctx)
		r = r.WithContext(ctx)
	}
	return l.Compare(r)
}
