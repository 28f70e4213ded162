package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	strategy TEXT NOT NULL,
	pair TEXT NOT NULL,
	timeframe TEXT NOT NULL,
	dataset TEXT NOT NULL,
	config TEXT NOT NULL,
	risk_pct REAL NOT NULL,
	stop_pips REAL NOT NULL,
	take_pips REAL NOT NULL,
	start_time DATETIME NOT NULL,
	end_time DATETIME NOT NULL,
	trades INTEGER NOT NULL,
	wins INTEGER NOT NULL,
	losses INTEGER NOT NULL,
	start_balance REAL NOT NULL,
	end_balance REAL NOT NULL,
	net_pl REAL NOT NULL,
	return_pct REAL NOT NULL,
	win_rate REAL NOT NULL,
	profit_factor TEXT NOT NULL,
	max_dd_pct REAL NOT NULL,
	sharpe REAL NOT NULL,
	notes TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	pair TEXT NOT NULL,
	direction TEXT NOT NULL,
	quantity REAL NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	stop_loss REAL NOT NULL,
	take_profit REAL NOT NULL,
	entry_time DATETIME NOT NULL,
	exit_time DATETIME NOT NULL,
	profit_loss REAL NOT NULL,
	reason TEXT NOT NULL,
	status TEXT NOT NULL,
	notes TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id, entry_time);
CREATE INDEX IF NOT EXISTS idx_trades_exit ON trades(exit_time);

CREATE TABLE IF NOT EXISTS equity (
	run_id TEXT NOT NULL,
	idx INTEGER NOT NULL,
	time DATETIME NOT NULL,
	capital REAL NOT NULL,
	equity REAL NOT NULL,
	drawdown REAL NOT NULL,
	max_drawdown REAL NOT NULL,
	PRIMARY KEY (run_id, idx)
);

CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL,
	updated DATETIME NOT NULL
);
`
