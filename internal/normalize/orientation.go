package normalize

import "combine-videos/internal/probe"

// Orient adjusts a stream's coded size for its rotation tag. Rotations that
// reduce to a non-zero angle modulo 180 (90, 270, -90, ...) swap width and
// height; everything else, including a missing or malformed tag, leaves the
// pair as is. Arbitrary angles are not handled beyond that decision.
func Orient(width, height int, video probe.Stream) (int, int) {
	degrees, ok := video.Tags.Rotate.Degrees()
	if !ok {
		return width, height
	}
	if ((degrees%180)+180)%180 > 0 {
		return height, width
	}
	return width, height
}
