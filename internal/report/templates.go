package report

// Static blocks written around the data lines. They are reproduced verbatim
// for downstream readers; none of them depends on the input stations.
const (
	rule = "--------------------------------------------------------------------------------\n"
	// staRule underlines the STA section titles.
	staRule = "--------------------------------------\n"
)

const abbHeader = "ABBREVIATON FILE\n" +
	rule +
	"\n" +
	"Station name             4-ID    2-ID    Remark\n" +
	"\n\n"

const cluHeader = "BSW 5.2: PROCESSING EXAMPLE                                      10-JAN-12 06:07\n" +
	rule +
	"\n" +
	"STATION NAME      CLU\n" +
	"****************  ***\n"

const crdHeader = "PPP_210940: Collecting results                                   06-MAY-25 12:25\n" +
	rule +
	"LOCAL GEODETIC DATUM: IGS20             EPOCH: 2025-03-01 00:00:00\n" +
	"\n" +
	"NUM  STATION NAME           X (M)          Y (M)          Z (M)     FLAG\n" +
	"\n"

const pldHeader = "Example plate assignement\n" +
	rule +
	"LOCAL GEODETIC DATUM: IGS14           \n" +
	"\n" +
	"NUM  STATION NAME           VX (M/Y)       VY (M/Y)       VZ (M/Y)  FLAG   PLATE\n" +
	"\n"

const velHeader = "Example station velocities\n" +
	rule +
	"LOCAL GEODETIC DATUM: IGS14           \n" +
	"\n" +
	"NUM  STATION NAME           VX (M/Y)       VY (M/Y)       VZ (M/Y)  FLAG   PLATE\n" +
	"\n"

const staHeader = "Station information file\n" +
	rule +
	"\n" +
	"FORMAT VERSION: 1.01\n" +
	"TECHNIQUE:      GNSS\n" +
	"\n" +
	"TYPE 001: RENAMING OF STATIONS\n" +
	staRule +
	"\n" +
	"STATION NAME          FLG          FROM                   TO         OLD STATION NAME      REMARK\n"

const staType002Header = "\n" +
	"TYPE 002: STATION INFORMATION\n" +
	staRule +
	"\n" +
	"STATION NAME          FLG          FROM                   TO         RECEIVER TYPE         RECEIVER SERIAL NBR   REC #   ANTENNA TYPE          ANTENNA SERIAL NBR    ANT #    NORTH      EAST      UP      DESCRIPTION             REMARK\n"

const staType003 = "\n\n" +
	"TYPE 003: HANDLING OF STATION PROBLEMS\n" +
	staRule +
	"\n" +
	"STATION NAME          FLG          FROM                   TO         REMARK\n" +
	"****************      ***  YYYY MM DD HH MM SS  YYYY MM DD HH MM SS  ************************************************************\n"

const staType004 = "\n\n" +
	"TYPE 004: STATION COORDINATES AND VELOCITIES (ADDNEQ)\n" +
	staRule +
	"                                            RELATIVE CONSTR. POSITION     RELATIVE CONSTR. VELOCITY\n" +
	"STATION NAME 1        STATION NAME 2        NORTH     EAST      UP        NORTH     EAST      UP\n" +
	"****************      ****************      **.*****  **.*****  **.*****  **.*****  **.*****  **.*****\n"

const staType005 = "\n\n" +
	"TYPE 005: HANDLING STATION TYPES\n" +
	staRule +
	"\n" +
	"STATION NAME          FLG  FROM                 TO                   MARKER TYPE           REMARK\n" +
	"****************      ***  YYYY MM DD HH MM SS  YYYY MM DD HH MM SS  ********************  ************************\n"

// staTrailer holds the sections that never carry data rows.
const staTrailer = staType003 + staType004 + staType005
