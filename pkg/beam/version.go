package beam

// CheckVersion reports whether the generator runs on the given host
// version. Every host is accepted.
func CheckVersion(host string) bool {
	return true
}
