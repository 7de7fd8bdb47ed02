package userstore

import "github.com/omarluq/rolegate/internal/config"

func (s *Store) VerdictKey(user config.UserConfig, password string) string {
	return s.verdictKey(&user, password)
}
