package lifecycle

func SetLockCreatedHook(m *Manager, hook func(lockPath string)) {
	m.lockCreated = hook
}
