package health

// StorageChecker checks that the storage roots are writable.
type StorageChecker interface {
	Check() error
}

// EngineLocator resolves an external engine binary on the host.
type EngineLocator interface {
	Locate(bin string) error
}
