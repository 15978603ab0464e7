package filefairy

// VERSION represents the current filefairy version
const VERSION = "1.0.0"
