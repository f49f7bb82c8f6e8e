// Command probecache inspects and maintains the ffprobe cache used by
// combine-videos.
//
// Usage:
//
//	probecache <command>
//
// Commands:
//
//	status       Show the number of cached probes, their age range, the
//	             database size and when combine-videos last ran.
//
//	clear        Remove every cached probe. Asks for confirmation when
//	             stdin is a terminal; pass --yes to skip it.
//
//	prune <age>  Remove probes older than age, given as a Go duration
//	             ("72h") or a number of days ("30d").
//
// Environment:
//
//	CACHE_DIR - Directory holding probes.db (default: the user cache
//	            directory, e.g. ~/.cache/combine-videos)
package main
