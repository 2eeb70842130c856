package game

const (
	ErrorUnknownPacket     = "Error: Unknown packet ID %d."
	ErrorMalformedPacket   = "Error: Malformed %T: %v"
	ErrorStaleMove         = "Error: Move timestamp %f is not newer than %f."
	ErrorInvalidDeltaTime  = "Error: Move delta time %f is invalid."
	ErrorNoValidData       = "Error: Movement component has no valid data."
	ErrorNonFiniteMove     = "Error: Move at %f carries a non-finite value."
	ErrorRecordingVersion  = "Error: Recording version %q is not supported."
	ErrorRecordingDiverged = "Error: Recording diverged at frame %d (expected %x, got %x)."
	ErrorDuplicateFlagBit  = "Error: Flag bit %d is already owned by %s (registering %s)."
	ErrorFlagBitOutOfRange = "Error: Flag bit %d does not fit in the compressed flags byte."
	ErrorInternalNilMove   = "Error: Saved move is nil."
	ErrorInternalNilPacket = "Error: Packet is nil."
	ErrorSessionClosed     = "Error: Session was closed."
)
