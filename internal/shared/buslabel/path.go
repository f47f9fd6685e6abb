package buslabel

import "strings"

// ObjectPath returns the child object path for id under root.
func ObjectPath(root, id string) string {
	root = strings.TrimSuffix(root, "/")
	return root + "/" + Encode(id)
}

// Node returns the first path element of path below root. It returns false
// when path is root itself or lies outside it.
func Node(root, path string) (string, bool) {
	root = strings.TrimSuffix(root, "/")
	rest, ok := strings.CutPrefix(path, root+"/")
	if !ok || rest == "" {
		return "", false
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest, rest != ""
}
