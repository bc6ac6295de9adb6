package xmlb

// Version is the library version reported by the command line tools.
const Version = "1.0.0"
