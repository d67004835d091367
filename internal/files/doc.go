// Package files provides the file operations the generator performs, anchored at the
// resolved data directory so callers can pass either absolute paths or names relative
// to it.
//
//	manager := files.NewManager(paths)
//	existed, err := manager.WriteFile("shiller-historical-yield-data.ts", content)
package files
