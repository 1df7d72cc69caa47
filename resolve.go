package newfs

import "strings"

// countLevels counts the '/' characters in path (spec.md §4.5 step 1); "/"
// itself has zero levels.
func countLevels(path string) int {
	if path == "/" {
		return 0
	}
	return strings.Count(path, "/")
}

// splitPath returns the non-empty, '/'-separated components of path.
func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Resolve walks path from the root, hydrating inodes on demand, and reports
// whether the full path was found (spec.md §4.5, C5). On a miss it returns
// the last dentry successfully walked into: the parent directory when a
// component is missing, or the regular file's own dentry when the path
// continues below a regular file. Unlike the source, which compares
// names with a prefix memcmp, this compares for exact equality (spec.md §9).
func (fs *Filesystem) Resolve(path string) (dentry *Dentry, found bool, isRoot bool, err error) {
	totalLvl := countLevels(path)
	if totalLvl == 0 {
		return fs.root, true, true, nil
	}

	cursor := fs.root
	lvl := 0

	for _, name := range splitPath(path) {
		lvl++

		if cursor.Inode == nil {
			in, err := fs.hydrateInode(cursor, cursor.Ino)
			if err != nil {
				return nil, false, false, err
			}
			cursor.Inode = in
		}
		inode := cursor.Inode

		if inode.FType == RegFile && lvl < totalLvl {
			return inode.Dentry, false, false, nil
		}

		if inode.FType != Dir {
			// A regular file whose child is the final component (lvl ==
			// totalLvl, e.g. "/f/x"), or a reserved SymLink at any level,
			// cannot be descended into: report a miss at this dentry.
			return inode.Dentry, false, false, nil
		}

		var hit *Dentry
		for c := inode.Children; c != nil; c = c.Next {
			if c.Name == name {
				hit = c
				break
			}
		}

		if hit == nil {
			return inode.Dentry, false, false, nil
		}

		cursor = hit
		if lvl == totalLvl {
			if cursor.Inode == nil {
				in, err := fs.hydrateInode(cursor, cursor.Ino)
				if err != nil {
					return nil, false, false, err
				}
				cursor.Inode = in
			}
			return cursor, true, false, nil
		}
	}

	return cursor, false, false, nil
}

// baseName returns the final '/'-separated component of path.
func baseName(path string) string {
	idx := strings.LastIndexByte(path, '/')
	return path[idx+1:]
}
