package registry

// Resolve picks a version from versions (newest first) for a package that
// targets unity. Entries whose Unity version differs from unity are skipped
// when unity is set. With an empty requested version the first compatible
// entry wins; otherwise the requested version must be present and compatible.
func Resolve(versions []PackageVersion, unity, requested string) (string, bool) {
	for _, v := range versions {
		if unity != "" && v.Unity != unity {
			continue
		}
		if requested == "" {
			return v.Version, true
		}
		if v.Version == requested {
			return v.Version, true
		}
	}
	return "", false
}
