package localstore

// LoggedIn reads the locally-persisted login marker under KeyAuth.
// The marker is advisory - when a remote session exists it is the cookie
// that decides, and the flag just lets the UI render an optimistic state
// before session resolution completes.
func (s *Store) LoggedIn() (bool, error) {
	data, ok, err := s.Get(KeyAuth)
	if err != nil {
		return false, err
	}
	return ok && string(data) == "1", nil
}

// SetLoggedIn persists the login marker.
func (s *Store) SetLoggedIn(v bool) error {
	if v {
		return s.Set(KeyAuth, []byte("1"))
	}
	return s.Set(KeyAuth, []byte("0"))
}
