// Package mocks provides testify mocks of the ports interfaces, written in
// the expecter style so tests read m.EXPECT().Method(args).Return(values).
package mocks
