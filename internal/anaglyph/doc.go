// Package anaglyph generates random-dot stereo stimuli.
//
// A [Generator] produces two binary background patterns (one per eye), a
// binary focal pattern and a diamond-shaped focal mask. Each eye draws its
// background shifted horizontally by the background offset and the masked
// focal pattern shifted by the focal offset, in opposite directions for the
// two eyes. The difference between the two offsets is the disparity that
// makes the diamond float in front of or behind the background.
//
// The background under the diamond is cleared at the per-eye shifted
// position so that the two layers never overlap, which would otherwise show
// up as visible seams around the focal region.
//
// # Thread Safety
//
// A Generator is owned by a single exercise and is NOT safe for concurrent
// use. Rendering reads [Generator.DrawData] between calls to
// [Generator.Initialize].
package anaglyph
