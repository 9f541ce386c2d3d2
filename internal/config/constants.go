package config

// Base application details
const AppName = "ebb"
const ConfigDirName = "ebb"
const DefaultConfigFileName = "config.toml"
const DefaultLogFileName = "ebb.log"

// Editing defaults. Block size and count bound how much of the backing
// file sits in memory; the chunk size is how much a single shift moves
// per syscall pair.
const DefaultBlockSize = 1024
const DefaultMaxBlockCount = 8
const DefaultChunkSize = 120
