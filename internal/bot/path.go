package bot

import "strings"

// WildcardPath matches any resolved action. Routes registered without an
// explicit path use it.
const WildcardPath = "/*"

// WildcardExit matches any signaled exit action name.
const WildcardExit = "*"

// NormalizePath ensures a single leading slash and strips trailing slashes.
// The empty path normalizes to the root "/".
func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	return path
}

// AbsolutePath resolves a postback target against scopePath. Targets that
// already start with a slash are absolute addresses and are returned
// normalized but otherwise untouched; scoped actions produced by RelativePath
// re-absolutize through JoinPath instead.
func AbsolutePath(target, scopePath string) string {
	if strings.HasPrefix(target, "/") {
		return NormalizePath(target)
	}
	scopePath = NormalizePath(scopePath)
	if scopePath == "/" {
		return NormalizePath("/" + target)
	}
	return NormalizePath(scopePath + "/" + target)
}

// RelativePath returns action expressed relative to scopePath, or "" when the
// action is not addressed to that scope. The root scope is never stripped, so
// at "/" every action resolves to itself. The result keeps its leading slash
// for route matching; JoinPath(scopePath, result) recovers the original
// absolute action.
func RelativePath(action, scopePath string) string {
	action = NormalizePath(action)
	scopePath = NormalizePath(scopePath)
	if scopePath == "/" {
		return action
	}
	if action == scopePath {
		return "/"
	}
	if strings.HasPrefix(action, scopePath+"/") {
		return action[len(scopePath):]
	}
	return ""
}

// JoinPath composes the scope a sub-tree runs under. A wildcard route does not
// extend the scope of its parent.
func JoinPath(scopePath, routePath string) string {
	scopePath = NormalizePath(scopePath)
	if routePath == WildcardPath || routePath == "/" {
		return scopePath
	}
	routePath = NormalizePath(routePath)
	if scopePath == "/" {
		return routePath
	}
	return NormalizePath(scopePath + routePath)
}
