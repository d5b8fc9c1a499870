package station

// usZones maps Amtrak station codes in the United States to IANA zones.
var usZones = map[string]string{
	"NYP": "America/New_York",
	"WAS": "America/New_York",
	"PHL": "America/New_York",
	"CHI": "America/Chicago",
	"BOS": "America/New_York",
	"LAX": "America/Los_Angeles",
	"SAC": "America/Los_Angeles",
	"BAL": "America/New_York",
	"ALB": "America/New_York",
	"PVD": "America/New_York",
	"SAN": "America/Los_Angeles",
	"WIL": "America/New_York",
	"BWI": "America/New_York",
	"NWK": "America/New_York",
	"SEA": "America/Los_Angeles",
	"NHV": "America/New_York",
	"BBY": "America/New_York",
	"MKE": "America/Chicago",
	"PDX": "America/Los_Angeles",
	"EMY": "America/Los_Angeles",
	"LNC": "America/New_York",
	"HAR": "America/New_York",
	"BFD": "America/Los_Angeles",
	"RTE": "America/New_York",
	"TRE": "America/New_York",
	"BON": "America/New_York",
	"STM": "America/New_York",
	"SOL": "America/Los_Angeles",
	"DAV": "America/Los_Angeles",
	"MET": "America/New_York",
	"FNO": "America/Los_Angeles",
	"MTZ": "America/Los_Angeles",
	"IRV": "America/Los_Angeles",
	"RVR": "America/New_York",
	"OKJ": "America/Los_Angeles",
	"SBA": "America/Los_Angeles",
	"STL": "America/Chicago",
	"OSD": "America/Los_Angeles",
	"FUL": "America/Los_Angeles",
	"SKN": "America/Los_Angeles",
	"RIC": "America/Los_Angeles",
	"OLT": "America/Los_Angeles",
	"ANA": "America/Los_Angeles",
	"LOR": "America/New_York",
	"SFA": "America/New_York",
	"BNL": "America/Chicago",
	"SJC": "America/Los_Angeles",
	"SNC": "America/Los_Angeles",
	"HUD": "America/New_York",
	"RHI": "America/New_York",
	"PAO": "America/New_York",
	"HNF": "America/Los_Angeles",
	"ALX": "America/New_York",
	"NOL": "America/Chicago",
	"CLT": "America/New_York",
	"NCR": "America/New_York",
	"SUI": "America/Los_Angeles",
	"POR": "America/New_York",
	"SPI": "America/Chicago",
	"KIN": "America/New_York",
	"CHM": "America/Chicago",
	"MKA": "America/Chicago",
	"NLC": "America/New_York",
	"RGH": "America/New_York",
	"GAC": "America/Los_Angeles",
	"KCY": "America/Chicago",
	"BKY": "America/Los_Angeles",
	"SNA": "America/Los_Angeles",
	"PGH": "America/New_York",
	"EWR": "America/New_York",
	"HFD": "America/New_York",
	"DEN": "America/Denver",
	"CVS": "America/New_York",
	"ORL": "America/New_York",
	"EXT": "America/New_York",
	"ARB": "America/Detroit",
	"SYR": "America/New_York",
	"ROC": "America/New_York",
	"MCD": "America/Los_Angeles",
	"TAC": "America/Los_Angeles",
	"MOD": "America/Los_Angeles",
	"GRO": "America/New_York",
	"KAL": "America/Detroit",
	"SLO": "America/Los_Angeles",
	"BUF": "America/New_York",
	"NPN": "America/New_York",
	"TPA": "America/New_York",
	"ELT": "America/New_York",
	"FTW": "America/Chicago",
	"POU": "America/New_York",
	"CDL": "America/Chicago",
	"GBB": "America/Chicago",
	"VAN": "America/Los_Angeles",
	"MSP": "America/Chicago",
	"SPG": "America/New_York",
	"EUG": "America/Los_Angeles",
	"NRO": "America/New_York",
	"CYN": "America/New_York",
	"OXN": "America/Los_Angeles",
	"BRP": "America/New_York",
	"LYH": "America/New_York",
	"EXR": "America/New_York",
	"ATL": "America/New_York",
	"DOW": "America/New_York",
	"SVT": "America/Chicago",
	"GTA": "America/Los_Angeles",
	"ABQ": "America/Denver",
	"VNC": "America/Los_Angeles",
	"DNC": "America/New_York",
	"MEM": "America/Chicago",
	"OAC": "America/Los_Angeles",
	"JAX": "America/New_York",
	"RNO": "America/Los_Angeles",
	"ARD": "America/New_York",
	"MID": "America/New_York",
	"MAC": "America/Chicago",
	"DER": "America/Detroit",
	"LNS": "America/Detroit",
	"VEC": "America/Los_Angeles",
	"MIA": "America/New_York",
	"DHM": "America/New_York",
	"OLW": "America/Los_Angeles",
	"OSB": "America/New_York",
	"CHS": "America/New_York",
	"CWT": "America/Los_Angeles",
	"SLM": "America/Los_Angeles",
	"BUR": "America/Los_Angeles",
	"ALN": "America/Chicago",
	"WBG": "America/New_York",
	"UCA": "America/New_York",
	"JOL": "America/Chicago",
	"WLN": "America/New_York",
	"FBG": "America/New_York",
	"WPB": "America/New_York",
	"SAV": "America/New_York",
	"GLN": "America/Chicago",
	"TOL": "America/New_York",
	"KWD": "America/Chicago",
	"SDY": "America/New_York",
	"WFH": "America/Denver",
	"RMT": "America/New_York",
	"FAY": "America/New_York",
	"DOV": "America/New_York",
	"SAS": "America/Chicago",
	"MJY": "America/New_York",
	"BEL": "America/Los_Angeles",
	"DET": "America/Detroit",
	"SPK": "America/Los_Angeles",
	"WEM": "America/New_York",
	"HAY": "America/Los_Angeles",
	"CLE": "America/New_York",
	"PAR": "America/New_York",
	"JAN": "America/Chicago",
	"NPV": "America/Chicago",
	"CML": "America/Los_Angeles",
	"GSC": "America/Denver",
	"FLO": "America/New_York",
	"GDL": "America/Los_Angeles",
	"CRT": "America/New_York",
	"HHL": "America/New_York",
	"OKC": "America/Chicago",
	"NFK": "America/New_York",
	"SAO": "America/New_York",
	"SIM": "America/Los_Angeles",
	"SCC": "America/Los_Angeles",
	"WLY": "America/New_York",
	"RVM": "America/New_York",
	"PJC": "America/New_York",
	"BHM": "America/Chicago",
	"FTL": "America/New_York",
	"DAL": "America/Chicago",
	"EVR": "America/Los_Angeles",
	"QCY": "America/Chicago",
	"SLC": "America/Denver",
	"FMT": "America/Los_Angeles",
	"WAC": "America/Los_Angeles",
	"FLG": "America/Phoenix",
	"JEF": "America/Chicago",
	"ACA": "America/Los_Angeles",
	"RSV": "America/Los_Angeles",
	"BTL": "America/Detroit",
	"GRR": "America/Detroit",
	"SKT": "America/Los_Angeles",
	"BFX": "America/New_York",
	"KIS": "America/New_York",
	"ABE": "America/New_York",
	"MAT": "America/Chicago",
	"HMW": "America/Chicago",
	"SAR": "America/New_York",
	"PCT": "America/Chicago",
	"HOM": "America/Detroit",
	"ALY": "America/Los_Angeles",
	"KFS": "America/Los_Angeles",
	"HPT": "America/New_York",
	"CLB": "America/New_York",
	"GJT": "America/Denver",
	"KEL": "America/Los_Angeles",
	"CPN": "America/Los_Angeles",
	"AUS": "America/Chicago",
	"IND": "America/Indiana/Indianapolis",
	"EDM": "America/Los_Angeles",
	"COC": "America/Los_Angeles",
	"PTB": "America/New_York",
	"TUK": "America/Los_Angeles",
	"OMA": "America/Chicago",
	"MOT": "America/Chicago",
	"FLN": "America/Detroit",
	"TRK": "America/Los_Angeles",
	"NFL": "America/New_York",
	"LVW": "America/Chicago",
	"WPK": "America/New_York",
	"ASD": "America/New_York",
	"WTN": "America/Chicago",
	"MDR": "America/Los_Angeles",
	"TUS": "America/Phoenix",
	"BRK": "America/New_York",
	"LEE": "America/Chicago",
	"ROY": "America/Detroit",
	"LSE": "America/Chicago",
	"EFG": "America/Chicago",
	"CTL": "America/Los_Angeles",
	"HOL": "America/New_York",
	"MYS": "America/New_York",
	"YNY": "America/New_York",
	"DFB": "America/New_York",
	"HEM": "America/Chicago",
	"BNC": "America/New_York",
	"MDT": "America/Chicago",
	"TRM": "America/Detroit",
	"PSC": "America/Los_Angeles",
	"JXN": "America/Detroit",
	"DLD": "America/New_York",
	"JST": "America/New_York",
	"ALT": "America/New_York",
	"WTH": "America/New_York",
	"SAL": "America/New_York",
	"MSS": "America/New_York",
	"FAR": "America/Chicago",
	"WOB": "America/New_York",
	"SNS": "America/Los_Angeles",
	"SOB": "America/Indiana/Indianapolis",
	"EKH": "America/Indiana/Indianapolis",
	"CEN": "America/Chicago",
	"LCN": "America/Chicago",
	"NBU": "America/Detroit",
	"WTI": "America/Detroit",
	"PTH": "America/Detroit",
	"KKI": "America/Chicago",
	"HOS": "America/Chicago",
	"GVB": "America/Los_Angeles",
	"ESX": "America/New_York",
	"WIN": "America/Chicago",
	"SRB": "America/Los_Angeles",
	"QAN": "America/New_York",
	"KAN": "America/New_York",
	"MVW": "America/Los_Angeles",
	"LAF": "America/Indiana/Indianapolis",
	"LRK": "America/Chicago",
	"MDN": "America/New_York",
	"MPK": "America/Los_Angeles",
	"NHT": "America/New_York",
	"KEE": "America/Chicago",
	"WNL": "America/New_York",
	"NLS": "America/Detroit",
	"RAT": "America/Denver",
	"SBG": "America/New_York",
	"RLN": "America/Los_Angeles",
	"ERI": "America/New_York",
	"BER": "America/New_York",
	"BRA": "America/New_York",
	"OSC": "America/Chicago",
	"WAH": "America/Chicago",
	"ARN": "America/Los_Angeles",
	"ORB": "America/New_York",
	"GLP": "America/Denver",
	"TPL": "America/Chicago",
	"COT": "America/New_York",
	"SNP": "America/Los_Angeles",
	"PON": "America/Chicago",
	"CLP": "America/New_York",
	"WEN": "America/Los_Angeles",
	"GWD": "America/Chicago",
	"ORC": "America/Los_Angeles",
	"LNK": "America/Chicago",
	"TRU": "America/Los_Angeles",
	"ELP": "America/Ojinaga",
	"LKL": "America/New_York",
	"WDL": "America/Chicago",
	"RUD": "America/New_York",
	"CBS": "America/Chicago",
	"GFK": "America/Chicago",
	"NFS": "America/Toronto",
	"WAR": "America/Chicago",
	"GPK": "America/Denver",
	"NEW": "America/Chicago",
	"WRJ": "America/New_York",
	"GNB": "America/New_York",
	"MTP": "America/Chicago",
	"PLB": "America/New_York",
	"DLB": "America/New_York",
	"CIC": "America/Los_Angeles",
	"SSM": "America/New_York",
	"NRK": "America/New_York",
	"PNT": "America/Detroit",
	"TOH": "America/Chicago",
	"RIV": "America/Los_Angeles",
	"SJM": "America/Detroit",
	"DRD": "America/Detroit",
	"PAK": "America/New_York",
	"GUA": "America/Los_Angeles",
	"KTR": "America/New_York",
	"HMD": "America/Chicago",
	"OTM": "America/Chicago",
	"LAG": "America/Chicago",
	"PRB": "America/Los_Angeles",
	"GRV": "America/New_York",
	"CIN": "America/New_York",
	"SNB": "America/Los_Angeles",
	"HAV": "America/Denver",
	"NOR": "America/Chicago",
	"LAP": "America/Chicago",
	"CUM": "America/New_York",
	"SCD": "America/Chicago",
	"FRE": "America/New_York",
	"LMY": "America/Denver",
	"RDD": "America/Los_Angeles",
	"MRC": "America/Phoenix",
	"SMT": "America/Chicago",
	"MRB": "America/New_York",
	"SBY": "America/Denver",
	"YEM": "America/New_York",
	"HUN": "America/New_York",
	"TCL": "America/Chicago",
	"CMO": "America/Los_Angeles",
	"AMS": "America/New_York",
	"TOP": "America/Chicago",
	"MEI": "America/Chicago",
	"CRV": "America/Chicago",
	"JSP": "America/New_York",
	"FED": "America/New_York",
	"WDB": "America/New_York",
	"KNG": "America/Phoenix",
	"SED": "America/Chicago",
	"CHW": "America/New_York",
	"SKY": "America/New_York",
	"HBG": "America/Chicago",
	"LEW": "America/New_York",
	"LPE": "America/Detroit",
	"DWT": "America/Chicago",
	"WFD": "America/New_York",
	"BRL": "America/Chicago",
	"ROM": "America/New_York",
	"WND": "America/New_York",
	"WIP": "America/Denver",
	"DQN": "America/Chicago",
	"LOD": "America/Los_Angeles",
	"LRC": "America/Chicago",
	"RDW": "America/Chicago",
	"WMJ": "America/Phoenix",
	"NDL": "America/Los_Angeles",
	"MHL": "America/Chicago",
	"IDP": "America/Chicago",
	"LPS": "America/Los_Angeles",
	"LWA": "America/Los_Angeles",
	"NBK": "America/New_York",
	"PIT": "America/New_York",
	"POG": "America/Chicago",
	"MPR": "America/New_York",
	"DIL": "America/New_York",
	"ENC": "America/Los_Angeles",
	"ELK": "America/Los_Angeles",
	"SPT": "America/Los_Angeles",
	"GCK": "America/Chicago",
	"HFY": "America/New_York",
	"HIN": "America/New_York",
	"CBV": "America/Los_Angeles",
	"ADM": "America/Chicago",
	"DAN": "America/New_York",
	"SOP": "America/New_York",
	"POI": "America/Los_Angeles",
	"LAJ": "America/Denver",
	"SMC": "America/Chicago",
	"LFT": "America/Chicago",
	"VRV": "America/Los_Angeles",
	"FMD": "America/Chicago",
	"PLO": "America/Chicago",
	"GLE": "America/Chicago",
	"COX": "America/Los_Angeles",
	"WGL": "America/Denver",
	"STA": "America/New_York",
	"BCV": "America/New_York",
	"TXA": "America/Chicago",
	"WOR": "America/New_York",
	"SPL": "America/Chicago",
	"MIN": "America/Chicago",
	"LAK": "America/New_York",
	"HGD": "America/New_York",
	"ELY": "America/New_York",
	"SDL": "America/Chicago",
	"DUN": "America/Los_Angeles",
	"HMI": "America/Chicago",
	"GFD": "America/New_York",
	"BYN": "America/Detroit",
	"TRI": "America/Denver",
	"CRF": "America/Indiana/Indianapolis",
	"MCB": "America/Chicago",
	"WPT": "America/Denver",
	"RTL": "America/Chicago",
	"WSP": "America/New_York",
	"RKV": "America/New_York",
	"PRO": "America/Denver",
	"TAY": "America/Chicago",
	"WAB": "America/New_York",
	"WSS": "America/New_York",
	"MCG": "America/Chicago",
	"ALC": "America/New_York",
	"ONA": "America/Los_Angeles",
	"STN": "America/Chicago",
	"HAS": "America/Chicago",
	"GNS": "America/New_York",
	"COV": "America/New_York",
	"STW": "America/Los_Angeles",
	"LIB": "America/Denver",
	"ALP": "America/Chicago",
	"DLK": "America/Chicago",
	"DDG": "America/Chicago",
	"ATN": "America/Chicago",
	"LSV": "America/Denver",
	"PBF": "America/Chicago",
	"GGW": "America/Denver",
	"HAM": "America/New_York",
	"HUT": "America/Chicago",
	"GRA": "America/Denver",
	"LAB": "America/New_York",
	"YUM": "America/Phoenix",
	"WLO": "America/Phoenix",
	"BLF": "America/New_York",
	"CNV": "America/New_York",
	"PVL": "America/Chicago",
	"BRH": "America/Chicago",
	"DVL": "America/Chicago",
	"OKE": "America/New_York",
	"RUG": "America/Chicago",
	"DOA": "America/Detroit",
	"WNN": "America/Los_Angeles",
	"BAM": "America/Detroit",
	"CRN": "America/Chicago",
	"CBR": "America/Chicago",
	"MAL": "America/Denver",
	"YAZ": "America/Chicago",
	"SPB": "America/New_York",
	"FTN": "America/Chicago",
	"BNG": "America/Los_Angeles",
	"NBN": "America/Chicago",
	"LAU": "America/Chicago",
	"MCI": "America/Chicago",
	"FMG": "America/Denver",
	"LCH": "America/Chicago",
	"EPH": "America/Los_Angeles",
	"DNK": "America/New_York",
	"CAM": "America/New_York",
	"SAB": "America/New_York",
	"WNR": "America/Chicago",
	"BMT": "America/Chicago",
	"BAR": "America/Los_Angeles",
	"CSN": "America/New_York",
	"DYE": "America/Chicago",
	"TYR": "America/New_York",
	"MCK": "America/Chicago",
	"PSN": "America/Los_Angeles",
	"ESM": "America/Denver",
	"CWH": "America/New_York",
	"PRC": "America/New_York",
	"GRI": "America/Denver",
	"CUT": "America/Denver",
	"GLM": "America/Chicago",
	"TCA": "America/New_York",
	"CLA": "America/New_York",
	"PIC": "America/Chicago",
	"CLF": "America/New_York",
	"POH": "America/New_York",
	"AKY": "America/New_York",
	"MAY": "America/New_York",
	"FTC": "America/New_York",
	"HLD": "America/Chicago",
	"HER": "America/Denver",
	"BEN": "America/Phoenix",
	"REN": "America/Chicago",
	"RPH": "America/New_York",
	"DRT": "America/Chicago",
	"FRA": "America/New_York",
	"LMR": "America/Denver",
	"NIB": "America/Chicago",
	"WHL": "America/New_York",
	"MVN": "America/Chicago",
	"POS": "America/Los_Angeles",
	"PUR": "America/Chicago",
	"HOP": "America/Chicago",
	"ALI": "America/Detroit",
	"BRO": "America/Denver",
	"HAZ": "America/Chicago",
	"SCH": "America/Chicago",
	"DEM": "America/Denver",
	"GAS": "America/New_York",
	"WIH": "America/Los_Angeles",
	"RSP": "America/New_York",
	"PHN": "America/New_York",
	"HLK": "America/New_York",
	"ARK": "America/Chicago",
	"WNM": "America/New_York",
	"SPM": "America/New_York",
	"MNG": "America/New_York",
	"COI": "America/Indiana/Indianapolis",
	"LDB": "America/Denver",
	"PRK": "America/New_York",
	"ALD": "America/New_York",
	"THN": "America/New_York",
	"SND": "America/Chicago",
	"ATR": "America/Chicago",
	"BAS": "America/Chicago",
	"BIX": "America/Chicago",
	"CIP": "America/Chicago",
	"CSV": "America/Chicago",
	"GRE": "America/Denver",
	"MDO": "America/New_York",
	"MOE": "America/Chicago",
	"PNS": "America/Chicago",
	"TLH": "America/New_York",
}

// nonUSZones covers stations outside the United States. It takes
// precedence over usZones.
var nonUSZones = map[string]string{
	"VAC": "America/Vancouver",
	"MTR": "America/Toronto",
	"SLQ": "America/Toronto",
	"TCT": "America/Toronto",
	"TWO": "America/Toronto",
	"VBC": "America/Vancouver",
	"VIF": "America/Vancouver",
}
