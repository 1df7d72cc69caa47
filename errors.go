package newfs

import "errors"

// Package-specific error variables that can be used with errors.Is() for error handling.
var (
	// ErrNotFound is returned when a path resolution misses.
	ErrNotFound = errors.New("newfs: no such file or directory")

	// ErrExists is returned by mkdir/mknod when the target name already exists.
	ErrExists = errors.New("newfs: file exists")

	// ErrNotADirectory is returned when an intermediate path component is a regular file.
	ErrNotADirectory = errors.New("newfs: not a directory")

	// ErrIsADirectory is reserved for truncate on a directory; the core has no
	// truncate operation and no function here returns it.
	ErrIsADirectory = errors.New("newfs: is a directory")

	// ErrNoSpace is returned when a bitmap is exhausted or a file exceeds its block budget.
	ErrNoSpace = errors.New("newfs: no space left on device")

	// ErrIO is returned on device errors or internal consistency failures detected during sync.
	ErrIO = errors.New("newfs: input/output error")

	// ErrAccessDenied is reserved; the core performs no permission checks.
	ErrAccessDenied = errors.New("newfs: permission denied")

	// ErrInvalidSuper is reserved for a superblock that fails sanity checks; Mount
	// checks only the magic (a mismatch means "format"), so nothing returns it.
	ErrInvalidSuper = errors.New("newfs: invalid superblock")

	// ErrNotMounted is reserved for operations that need an active mount; no
	// function here returns it (Unmount on an unmounted filesystem is a no-op).
	ErrNotMounted = errors.New("newfs: filesystem not mounted")
)
