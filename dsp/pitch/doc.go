// Package pitch estimates the fundamental frequency of voiced signal frames.
//
// The tracker implements the YIN method: per centered frame it computes the
// cumulative mean normalized difference over the candidate lag range and
// picks the first trough under the voicing threshold, refined by parabolic
// interpolation. Frames with no such trough are reported unvoiced rather
// than failing, so silence and noise degrade to an unvoiced track.
package pitch
