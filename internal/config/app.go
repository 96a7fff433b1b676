package config

// AppConfig composes every configuration surface the worker process needs
// at startup.
type AppConfig struct {
	Log        LogConfig
	Relational RelationalConfig
	HotStore   HotStoreConfig
	AI         AIConfig
	Worker     WorkerConfig
}

func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	relCfg, err := LoadRelational()
	if err != nil {
		return AppConfig{}, err
	}
	hotCfg, err := LoadHotStore()
	if err != nil {
		return AppConfig{}, err
	}
	aiCfg, err := LoadAI()
	if err != nil {
		return AppConfig{}, err
	}
	workerCfg, err := LoadWorker()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Log:        logCfg,
		Relational: relCfg,
		HotStore:   hotCfg,
		AI:         aiCfg,
		Worker:     workerCfg,
	}, nil
}
