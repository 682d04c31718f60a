//go:build !unix

package discovery

import "io/fs"

func isExecutable(_ string, info fs.FileInfo) bool {
	return info.Mode().Perm()&0111 != 0
}
